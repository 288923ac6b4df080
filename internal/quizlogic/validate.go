package quizlogic

import (
	"strings"

	"quiz-studio-service/internal/domain"
)

// ValidateQuiz checks that a quiz is ready to be saved:
// a title, at least one question, and for each question some text, two or more
// filled-in options and at least one option marked correct.
func ValidateQuiz(title string, questions []domain.QuestionInput) error {
	if strings.TrimSpace(title) == "" {
		return domain.Invalid("title is required")
	}
	if len(questions) == 0 {
		return domain.Invalid("add at least one question")
	}
	for i, q := range questions {
		n := i + 1
		if strings.TrimSpace(q.QuestionText) == "" {
			return domain.Invalid("question %d has no text", n)
		}
		if len(q.Options) < 2 {
			return domain.Invalid("question %d needs at least 2 options", n)
		}
		hasCorrect := false
		for _, o := range q.Options {
			if o.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			return domain.Invalid("mark the correct answer in question %d", n)
		}
		for _, o := range q.Options {
			if strings.TrimSpace(o.OptionText) == "" {
				return domain.Invalid("fill in every option in question %d", n)
			}
		}
	}
	return nil
}
