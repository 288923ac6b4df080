package app

import (
	"context"
	"log"
	"time"

	"quiz-studio-service/internal/domain"
	"quiz-studio-service/internal/quizlogic"

	"github.com/google/uuid"
)

// SessionRepository abstracts how play sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *PlaySession)
	Get(sessionID string) (*PlaySession, bool)
	Delete(sessionID string)
}

// PlayService runs a user through one of their quizzes question by question.
type PlayService struct {
	quizzes  QuizRepository
	sessions SessionRepository
	shuffle  bool
	now      func() time.Time
}

func NewPlayService(quizzes QuizRepository, sessions SessionRepository, shuffle bool) *PlayService {
	return NewPlayServiceWithClock(quizzes, sessions, shuffle, time.Now)
}

// NewPlayServiceWithClock is used by tests that need to move past question deadlines.
func NewPlayServiceWithClock(quizzes QuizRepository, sessions SessionRepository, shuffle bool, now func() time.Time) *PlayService {
	return &PlayService{quizzes: quizzes, sessions: sessions, shuffle: shuffle, now: now}
}

// Start opens a session on an owned quiz and returns its first question.
func (s *PlayService) Start(ctx context.Context, ownerID, quizID int64) (domain.PlayQuestion, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, ownerID, quizID)
	if err != nil {
		return domain.PlayQuestion{}, err
	}
	if len(quiz.Questions) == 0 {
		return domain.PlayQuestion{}, domain.Invalid("quiz has no questions")
	}

	questions := make([]domain.Question, len(quiz.Questions))
	copy(questions, quiz.Questions)
	if s.shuffle {
		questions = quizlogic.Shuffle(questions)
		for i := range questions {
			questions[i].Options = quizlogic.Shuffle(questions[i].Options)
		}
	}
	quiz.Questions = questions

	session := newPlaySession(uuid.NewString(), ownerID, quiz, s.now)
	s.sessions.Save(session)
	log.Printf("play session %s started on quiz %d by user %d", session.id, quizID, ownerID)
	return session.current()
}

// Current returns the question the player has to answer next.
func (s *PlayService) Current(ownerID int64, sessionID string) (domain.PlayQuestion, error) {
	session, err := s.session(ownerID, sessionID)
	if err != nil {
		return domain.PlayQuestion{}, err
	}
	return session.current()
}

// Answer scores optionID against the current question. A nil optionID means
// the player gave no answer. Answers after the deadline never score.
func (s *PlayService) Answer(ownerID int64, sessionID string, questionID int64, optionID *int64) (domain.AnswerResult, error) {
	session, err := s.session(ownerID, sessionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	return session.answer(questionID, optionID)
}

// Finish closes the session and returns the final score.
func (s *PlayService) Finish(ownerID int64, sessionID string) (domain.PlayResult, error) {
	session, err := s.session(ownerID, sessionID)
	if err != nil {
		return domain.PlayResult{}, err
	}
	s.sessions.Delete(sessionID)
	return session.result(), nil
}

func (s *PlayService) session(ownerID int64, sessionID string) (*PlaySession, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok || session.ownerID != ownerID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}
