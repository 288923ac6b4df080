package app_test

import (
	"context"
	"errors"
	"testing"

	"quiz-studio-service/internal/domain"
)

func TestRegisterLoginAndDuplicate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	id, err := env.accounts.Register(ctx, "a", "a@x.com", "p")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := env.accounts.Login(ctx, "a@x.com", "p")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != id || user.Username != "a" || user.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	claims, err := env.tokens.Parse(token)
	if err != nil {
		t.Fatalf("token should verify: %v", err)
	}
	if claims.UserID != id || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := env.accounts.Register(ctx, "b", "a@x.com", "q"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.user(t, "a@x.com")

	if _, _, err := env.accounts.Login(ctx, "", "p"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, _, err := env.accounts.Login(ctx, "nobody@x.com", "p"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if _, _, err := env.accounts.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.accounts.Register(context.Background(), "a", "", "p"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	id := env.user(t, "a@x.com")

	name := "renamed"
	pass := "new-password"
	user, err := env.accounts.UpdateProfile(ctx, id, &name, &pass)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.Username != "renamed" {
		t.Fatalf("expected new username, got %q", user.Username)
	}
	if _, _, err := env.accounts.Login(ctx, "a@x.com", "password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should fail, got %v", err)
	}
	if _, _, err := env.accounts.Login(ctx, "a@x.com", "new-password"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
	if _, err := env.accounts.UpdateProfile(ctx, id, nil, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}
}

func TestDeleteAccountRemovesQuizzes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	id := env.user(t, "a@x.com")
	quizID, _ := env.quizzes.Create(ctx, id, quizTeste())
	_, _ = env.quizzes.Get(ctx, id, quizID)

	if err := env.accounts.DeleteAccount(ctx, id); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if _, err := env.quizzes.Get(ctx, id, quizID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected cached quiz evicted, got %v", err)
	}
	if _, err := env.accounts.Profile(ctx, id); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user gone, got %v", err)
	}
}
