package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-studio-service/internal/app"
	"quiz-studio-service/internal/auth"
	"quiz-studio-service/internal/infra/memory"
	"quiz-studio-service/internal/infra/sqlstore"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	return NewRouter(Services{
		Accounts: app.NewAccountService(store, tokens, cache),
		Quizzes:  app.NewQuizService(store, cache),
		Folders:  app.NewFolderService(store, store, cache),
		Play:     app.NewPlayService(cache, memory.NewSessionStore(time.Minute), false),
		Tokens:   tokens,
	})
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// signUp registers and logs in, returning the token.
func signUp(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/register", "", map[string]string{
		"username": "user", "email": email, "password": "p",
	})
	expectStatus(t, rec, http.StatusCreated)
	rec = do(t, router, http.MethodPost, "/login", "", map[string]string{"email": email, "password": "p"})
	expectStatus(t, rec, http.StatusOK)
	return decode[struct {
		Token string `json:"token"`
	}](t, rec).Token
}

func quizBody(title string, timer int, folderIDs ...int64) map[string]any {
	if folderIDs == nil {
		folderIDs = []int64{}
	}
	return map[string]any{
		"title":           title,
		"timePerQuestion": timer,
		"folderIds":       folderIDs,
		"questions": []map[string]any{
			{
				"questionText": "Teste?",
				"options": []map[string]any{
					{"optionText": "Sim", "isCorrect": true},
					{"optionText": "Não", "isCorrect": false},
				},
			},
			{
				"questionText": "2 + 2?",
				"options": []map[string]any{
					{"optionText": "3", "isCorrect": false},
					{"optionText": "4", "isCorrect": true},
				},
			},
		},
	}
}
