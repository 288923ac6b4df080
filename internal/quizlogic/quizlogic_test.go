package quizlogic

import (
	"math/rand"
	"reflect"
	"sort"
	"strings"
	"testing"

	"quiz-studio-service/internal/domain"
)

func sampleQuestion() *domain.Question {
	return &domain.Question{
		ID:           1,
		QuestionText: "What colour is the sky?",
		Options: []domain.Option{
			{ID: 10, OptionText: "Red"},
			{ID: 11, OptionText: "Blue", IsCorrect: true},
			{ID: 12, OptionText: "Green"},
		},
	}
}

func ptr(v int64) *int64 { return &v }

func TestCheckAnswer(t *testing.T) {
	q := sampleQuestion()

	if !CheckAnswer(q, ptr(11)) {
		t.Fatalf("expected option 11 to be correct")
	}
	if CheckAnswer(q, ptr(10)) {
		t.Fatalf("expected option 10 to be incorrect")
	}
	if CheckAnswer(q, ptr(99)) {
		t.Fatalf("expected unknown option to be incorrect")
	}
	if CheckAnswer(nil, ptr(11)) {
		t.Fatalf("expected nil question to be incorrect")
	}
	if CheckAnswer(q, nil) {
		t.Fatalf("expected nil option id to be incorrect")
	}
	if CheckAnswer(&domain.Question{ID: 2}, ptr(11)) {
		t.Fatalf("expected question without options to be incorrect")
	}
}

func TestShuffleIsPermutationAndLeavesInputAlone(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	before := append([]int(nil), in...)

	for i := 0; i < 50; i++ {
		out := Shuffle(in)
		if len(out) != len(in) {
			t.Fatalf("expected len %d, got %d", len(in), len(out))
		}
		sorted := append([]int(nil), out...)
		sort.Ints(sorted)
		if !reflect.DeepEqual(sorted, before) {
			t.Fatalf("expected a permutation of %v, got %v", before, out)
		}
	}
	if !reflect.DeepEqual(in, before) {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestShuffleWithIsDeterministic(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	a := ShuffleWith(rand.New(rand.NewSource(42)), in)
	b := ShuffleWith(rand.New(rand.NewSource(42)), in)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected same order for same seed, got %v and %v", a, b)
	}
}

func TestShuffleEmpty(t *testing.T) {
	if out := Shuffle([]int{}); len(out) != 0 {
		t.Fatalf("expected empty result, got %v", out)
	}
	if out := Shuffle[int](nil); len(out) != 0 {
		t.Fatalf("expected empty result, got %v", out)
	}
}

func TestCalculatePercentage(t *testing.T) {
	cases := []struct{ score, total, want int }{
		{5, 10, 50},
		{3, 4, 75},
		{0, 10, 0},
		{2, 3, 67},
		{1, 0, 0},
	}
	for _, c := range cases {
		if got := CalculatePercentage(c.score, c.total); got != c.want {
			t.Errorf("CalculatePercentage(%d, %d) = %d, want %d", c.score, c.total, got, c.want)
		}
	}
}

func TestFeedbackMessage(t *testing.T) {
	if !strings.Contains(FeedbackMessage(90), "Excellent") || !strings.Contains(FeedbackMessage(80), "Excellent") {
		t.Fatalf("expected excellent for high scores")
	}
	if !strings.Contains(FeedbackMessage(50), "Good job") {
		t.Fatalf("expected good job at 50")
	}
	if !strings.Contains(FeedbackMessage(40), "Keep studying") {
		t.Fatalf("expected encouragement for low scores")
	}
}

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"Matemática Básica":  "matematica basica",
		"":                   "",
		"Quiz 100% Prático!": "quiz 100% pratico!",
		"Não":                "nao",
	}
	for in, want := range cases {
		if got := NormalizeText(in); got != want {
			t.Errorf("NormalizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToggleID(t *testing.T) {
	list := []int64{1, 2}
	added := ToggleID(list, 3)
	if !reflect.DeepEqual(added, []int64{1, 2, 3}) {
		t.Fatalf("expected id appended, got %v", added)
	}
	removed := ToggleID([]int64{1, 2, 3}, 2)
	if !reflect.DeepEqual(removed, []int64{1, 3}) {
		t.Fatalf("expected id removed, got %v", removed)
	}
	if !reflect.DeepEqual(list, []int64{1, 2}) {
		t.Fatalf("input mutated: %v", list)
	}
}
