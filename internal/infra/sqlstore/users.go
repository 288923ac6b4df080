package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-studio-service/internal/domain"

	"github.com/uptrace/bun"
)

func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	row := userRow{Username: username, Email: email, Password: passwordHash}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return row.ID, nil
}

// UserByEmail returns the user and its password hash.
func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, string, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where("email = ?", email).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, "", domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("select user: %w", err)
	}
	return row.toDomain(), row.Password, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (domain.User, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return row.toDomain(), nil
}

// UpdateUser changes the username and/or password hash. Nil fields are left alone.
func (s *Store) UpdateUser(ctx context.Context, id int64, username, passwordHash *string) error {
	q := s.db.NewUpdate().Model((*userRow)(nil)).Where("id = ?", id)
	if username != nil {
		q = q.Set("username = ?", *username)
	}
	if passwordHash != nil {
		q = q.Set("password = ?", *passwordHash)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the account; folders, quizzes and everything below them
// go with it. The IDs of the deleted quizzes are returned for cache eviction.
func (s *Store) DeleteUser(ctx context.Context, id int64) ([]int64, error) {
	var quizIDs []int64
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model((*quizRow)(nil)).Column("id").Where("user_id = ?", id).Scan(ctx, &quizIDs); err != nil {
			return fmt.Errorf("select user quizzes: %w", err)
		}
		res, err := tx.NewDelete().Model((*userRow)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quizIDs, nil
}
