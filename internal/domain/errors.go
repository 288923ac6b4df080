package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrUserNotFound is returned when no account matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned when a password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrQuizNotFound covers both a missing quiz and a quiz owned by someone else.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrFolderNotFound covers both a missing folder and a folder owned by someone else.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrSessionNotFound is returned when a play session has expired or never existed.
	ErrSessionNotFound = errors.New("play session not found")
	// ErrSessionFinished is returned when answering after the last question.
	ErrSessionFinished = errors.New("play session already finished")
	// ErrQuestionNotFound indicates a submitted question ID is not the current question.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option ID is invalid.
	ErrOptionNotFound = errors.New("option not found")
)

// ValidationError carries a human-readable reason for a rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
