package app_test

import (
	"context"
	"testing"
	"time"

	"quiz-studio-service/internal/app"
	"quiz-studio-service/internal/auth"
	"quiz-studio-service/internal/domain"
	"quiz-studio-service/internal/infra/memory"
	"quiz-studio-service/internal/infra/sqlstore"
)

type testEnv struct {
	store    *sqlstore.Store
	cache    *memory.QuizCache
	sessions *memory.SessionStore
	quizzes  *app.QuizService
	folders  *app.FolderService
	accounts *app.AccountService
	tokens   *auth.Tokens
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := sqlstore.Open(ctx, sqlstore.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := sqlstore.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := sqlstore.New(db)
	t.Cleanup(func() { store.Close() })

	cache := memory.NewQuizCache(store, time.Minute)
	tokens := auth.NewTokens("test-secret", time.Hour)
	return &testEnv{
		store:    store,
		cache:    cache,
		sessions: memory.NewSessionStore(time.Minute),
		quizzes:  app.NewQuizService(store, cache),
		folders:  app.NewFolderService(store, store, cache),
		accounts: app.NewAccountService(store, tokens, cache),
		tokens:   tokens,
	}
}

func (e *testEnv) user(t *testing.T, email string) int64 {
	t.Helper()
	id, err := e.accounts.Register(context.Background(), "user", email, "password")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return id
}

func quizTeste(folderIDs ...int64) domain.QuizInput {
	return domain.QuizInput{
		Title:           "Quiz Teste",
		TimePerQuestion: 30,
		FolderIDs:       folderIDs,
		Questions: []domain.QuestionInput{{
			QuestionText: "Teste?",
			Options: []domain.OptionInput{
				{OptionText: "Sim", IsCorrect: true},
				{OptionText: "Não"},
			},
		}},
	}
}
