// Package quizlogic holds the pure helpers used while taking and editing quizzes.
// Nothing here touches storage or shared state.
package quizlogic

import (
	"math"
	"math/rand"
	"strings"
	"unicode"

	"quiz-studio-service/internal/domain"

	"golang.org/x/text/unicode/norm"
)

// CheckAnswer reports whether optionID names a correct option of q.
// A nil question, a nil option ID or an ID that is not among the options is never correct.
func CheckAnswer(q *domain.Question, optionID *int64) bool {
	if q == nil || q.Options == nil || optionID == nil {
		return false
	}
	for _, opt := range q.Options {
		if opt.ID == *optionID {
			return opt.IsCorrect
		}
	}
	return false
}

// Shuffle returns a Fisher-Yates permutation of in. The input slice is not modified.
func Shuffle[T any](in []T) []T {
	return shuffle(rand.Intn, in)
}

// ShuffleWith is Shuffle with an explicit source, for reproducible orderings.
func ShuffleWith[T any](r *rand.Rand, in []T) []T {
	return shuffle(r.Intn, in)
}

func shuffle[T any](intn func(int) int, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// CalculatePercentage returns score/total as a rounded percentage, 0 when total is not positive.
func CalculatePercentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// FeedbackMessage picks the closing message shown with a result.
func FeedbackMessage(percentage int) string {
	switch {
	case percentage >= 80:
		return "Excellent! 🎉"
	case percentage >= 50:
		return "Good job! 👍"
	default:
		return "Keep studying! 📚"
	}
}

// NormalizeText strips diacritics and lowercases s for accent-insensitive search.
// "Matemática Básica" becomes "matematica basica".
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// ToggleID removes id from ids when present and appends it otherwise.
// It always returns a new slice.
func ToggleID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids)+1)
	found := false
	for _, v := range ids {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}
	return out
}
