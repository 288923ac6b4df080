package app

import (
	"sync"
	"time"

	"quiz-studio-service/internal/domain"
	"quiz-studio-service/internal/quizlogic"
)

// PlaySession is the in-memory state of one run through a quiz.
type PlaySession struct {
	id      string
	ownerID int64
	quiz    domain.Quiz
	limit   time.Duration
	now     func() time.Time

	mu       sync.Mutex
	index    int
	score    int
	deadline time.Time
	finished bool
}

// NewPlaySession is exported for infrastructure layers that need to seed sessions.
func NewPlaySession(id string, ownerID int64, quiz domain.Quiz) *PlaySession {
	return newPlaySession(id, ownerID, quiz, time.Now)
}

func newPlaySession(id string, ownerID int64, quiz domain.Quiz, now func() time.Time) *PlaySession {
	s := &PlaySession{
		id:      id,
		ownerID: ownerID,
		quiz:    quiz,
		limit:   time.Duration(quiz.TimePerQuestion) * time.Second,
		now:     now,
	}
	s.armDeadlineLocked()
	return s
}

// ID returns the session identifier handed out to the player.
func (s *PlaySession) ID() string { return s.id }

// Finished reports whether every question has been answered.
func (s *PlaySession) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

func (s *PlaySession) current() (domain.PlayQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return domain.PlayQuestion{}, domain.ErrSessionFinished
	}

	q := s.quiz.Questions[s.index]
	options := make([]domain.PlayOption, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, domain.PlayOption{ID: o.ID, OptionText: o.OptionText})
	}
	pq := domain.PlayQuestion{
		SessionID:    s.id,
		QuestionID:   q.ID,
		QuestionText: q.QuestionText,
		Options:      options,
		Index:        s.index,
		Total:        len(s.quiz.Questions),
	}
	if !s.deadline.IsZero() {
		deadline := s.deadline
		pq.Deadline = &deadline
	}
	return pq, nil
}

func (s *PlaySession) answer(questionID int64, optionID *int64) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return domain.AnswerResult{}, domain.ErrSessionFinished
	}

	q := &s.quiz.Questions[s.index]
	if q.ID != questionID {
		return domain.AnswerResult{}, domain.ErrQuestionNotFound
	}
	if optionID != nil && !hasOption(q, *optionID) {
		return domain.AnswerResult{}, domain.ErrOptionNotFound
	}

	timedOut := !s.deadline.IsZero() && s.now().After(s.deadline)
	correct := !timedOut && quizlogic.CheckAnswer(q, optionID)
	if correct {
		s.score++
	}

	s.index++
	if s.index >= len(s.quiz.Questions) {
		s.finished = true
		s.deadline = time.Time{}
	} else {
		s.armDeadlineLocked()
	}

	return domain.AnswerResult{
		QuestionID:      q.ID,
		Correct:         correct,
		CorrectOptionID: correctOption(q),
		TimedOut:        timedOut,
		Score:           s.score,
		Finished:        s.finished,
	}, nil
}

func (s *PlaySession) result() domain.PlayResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.quiz.Questions)
	pct := quizlogic.CalculatePercentage(s.score, total)
	return domain.PlayResult{
		QuizID:     s.quiz.ID,
		Title:      s.quiz.Title,
		Score:      s.score,
		Total:      total,
		Percentage: pct,
		Feedback:   quizlogic.FeedbackMessage(pct),
	}
}

func (s *PlaySession) armDeadlineLocked() {
	if s.limit <= 0 {
		s.deadline = time.Time{}
		return
	}
	s.deadline = s.now().Add(s.limit)
}

func hasOption(q *domain.Question, optionID int64) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// correctOption returns the first option marked correct, or 0.
func correctOption(q *domain.Question) int64 {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID
		}
	}
	return 0
}
