package app

import (
	"context"
	"log"

	"quiz-studio-service/internal/domain"
	"quiz-studio-service/internal/quizlogic"
)

// QuizStore persists quiz aggregates. Every write is owner-scoped and atomic.
type QuizStore interface {
	CreateQuiz(ctx context.Context, ownerID int64, in domain.QuizInput) (int64, error)
	UpdateQuiz(ctx context.Context, ownerID, quizID int64, in domain.QuizInput) error
	DeleteQuiz(ctx context.Context, ownerID, quizID int64) error
	ListQuizzes(ctx context.Context, ownerID int64) ([]domain.QuizSummary, error)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, ownerID, quizID int64) (domain.Quiz, error)
	Invalidate(ctx context.Context, quizIDs ...int64)
}

// QuizService contains the quiz editing use cases.
type QuizService struct {
	store   QuizStore
	quizzes QuizRepository
}

func NewQuizService(store QuizStore, quizzes QuizRepository) *QuizService {
	return &QuizService{store: store, quizzes: quizzes}
}

// Create validates and stores a new quiz with its questions, options and
// folder links, returning the quiz id.
func (s *QuizService) Create(ctx context.Context, ownerID int64, in domain.QuizInput) (int64, error) {
	if err := validateInput(in); err != nil {
		return 0, err
	}
	id, err := s.store.CreateQuiz(ctx, ownerID, in)
	if err != nil {
		return 0, err
	}
	log.Printf("quiz %d created by user %d (%d questions)", id, ownerID, len(in.Questions))
	return id, nil
}

func (s *QuizService) Get(ctx context.Context, ownerID, quizID int64) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, ownerID, quizID)
}

// Update replaces title, timer, folder links and the whole question tree.
func (s *QuizService) Update(ctx context.Context, ownerID, quizID int64, in domain.QuizInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if err := s.store.UpdateQuiz(ctx, ownerID, quizID, in); err != nil {
		return err
	}
	s.quizzes.Invalidate(ctx, quizID)
	return nil
}

func (s *QuizService) Delete(ctx context.Context, ownerID, quizID int64) error {
	if err := s.store.DeleteQuiz(ctx, ownerID, quizID); err != nil {
		return err
	}
	s.quizzes.Invalidate(ctx, quizID)
	log.Printf("quiz %d deleted by user %d", quizID, ownerID)
	return nil
}

func (s *QuizService) List(ctx context.Context, ownerID int64) ([]domain.QuizSummary, error) {
	return s.store.ListQuizzes(ctx, ownerID)
}

func validateInput(in domain.QuizInput) error {
	if in.TimePerQuestion < 0 {
		return domain.Invalid("timePerQuestion cannot be negative")
	}
	return quizlogic.ValidateQuiz(in.Title, in.Questions)
}
