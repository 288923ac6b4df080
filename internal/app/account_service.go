package app

import (
	"context"
	"log"
	"strings"

	"quiz-studio-service/internal/auth"
	"quiz-studio-service/internal/domain"
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error)
	UserByEmail(ctx context.Context, email string) (domain.User, string, error)
	UserByID(ctx context.Context, id int64) (domain.User, error)
	UpdateUser(ctx context.Context, id int64, username, passwordHash *string) error
	DeleteUser(ctx context.Context, id int64) ([]int64, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, email, username string) (string, error)
}

type AccountService struct {
	users  UserStore
	tokens TokenIssuer
	cache  QuizRepository
}

func NewAccountService(users UserStore, tokens TokenIssuer, cache QuizRepository) *AccountService {
	return &AccountService{users: users, tokens: tokens, cache: cache}
}

// Register creates an account and returns its id.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (int64, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return 0, domain.Invalid("username, email and password are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	id, err := s.users.CreateUser(ctx, username, email, hash)
	if err != nil {
		return 0, err
	}
	log.Printf("user %d registered", id)
	return id, nil
}

// Login checks the credentials and returns a signed token plus the public user.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", domain.User{}, domain.Invalid("email and password are required")
	}
	user, hash, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return "", domain.User{}, err
	}
	if !auth.CheckPassword(hash, password) {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

func (s *AccountService) Profile(ctx context.Context, userID int64) (domain.User, error) {
	return s.users.UserByID(ctx, userID)
}

// UpdateProfile changes the username and/or password. Nil means unchanged.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, username, password *string) (domain.User, error) {
	if username != nil {
		trimmed := strings.TrimSpace(*username)
		if trimmed == "" {
			return domain.User{}, domain.Invalid("username cannot be blank")
		}
		username = &trimmed
	}
	var hash *string
	if password != nil {
		if *password == "" {
			return domain.User{}, domain.Invalid("password cannot be blank")
		}
		h, err := auth.HashPassword(*password)
		if err != nil {
			return domain.User{}, err
		}
		hash = &h
	}
	if username == nil && hash == nil {
		return domain.User{}, domain.Invalid("nothing to update")
	}
	if err := s.users.UpdateUser(ctx, userID, username, hash); err != nil {
		return domain.User{}, err
	}
	return s.users.UserByID(ctx, userID)
}

// DeleteAccount removes the user and everything they own.
func (s *AccountService) DeleteAccount(ctx context.Context, userID int64) error {
	ids, err := s.users.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, ids...)
	log.Printf("user %d deleted with %d quizzes", userID, len(ids))
	return nil
}
