package memory

import (
	"testing"
	"time"

	"quiz-studio-service/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore(time.Minute)

	session := app.NewPlaySession("s-1", 10, sampleQuiz())
	store.Save(session)
	if got, ok := store.Get("s-1"); !ok || got != session {
		t.Fatalf("expected session present")
	}

	store.Delete("s-1")
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	store := NewSessionStore(time.Minute)
	now := time.Now()
	store.clock = func() time.Time { return now }

	store.Save(app.NewPlaySession("s-1", 10, sampleQuiz()))
	now = now.Add(30 * time.Second)
	if _, ok := store.Get("s-1"); !ok {
		t.Fatalf("expected session still alive")
	}
	now = now.Add(50 * time.Second)
	if _, ok := store.Get("s-1"); !ok {
		t.Fatalf("expected lookup to refresh idle timer")
	}
	now = now.Add(2 * time.Minute)
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected idle session dropped")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
