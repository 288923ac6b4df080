package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-studio-service/internal/domain"

	"github.com/uptrace/bun"
)

func (s *Store) CreateFolder(ctx context.Context, ownerID int64, name string) (domain.Folder, error) {
	row := folderRow{Name: name, UserID: ownerID}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		if isForeignKeyViolation(err) {
			return domain.Folder{}, domain.ErrUserNotFound
		}
		return domain.Folder{}, fmt.Errorf("insert folder: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) ListFolders(ctx context.Context, ownerID int64) ([]domain.Folder, error) {
	var rows []folderRow
	if err := s.db.NewSelect().Model(&rows).Where("user_id = ?", ownerID).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select folders: %w", err)
	}
	out := make([]domain.Folder, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// FolderWithQuizzes returns an owned folder and the owned quizzes linked to it.
func (s *Store) FolderWithQuizzes(ctx context.Context, ownerID, folderID int64) (domain.FolderContents, error) {
	folder, err := folderByID(ctx, s.db, ownerID, folderID)
	if err != nil {
		return domain.FolderContents{}, err
	}

	var rows []quizRow
	if err := s.db.NewSelect().Model(&rows).
		Join("JOIN quiz_folders AS link ON link.quiz_id = qz.id").
		Where("link.folder_id = ?", folderID).
		Where("qz.user_id = ?", ownerID).
		Order("qz.id ASC").
		Scan(ctx); err != nil {
		return domain.FolderContents{}, fmt.Errorf("select folder quizzes: %w", err)
	}
	return domain.FolderContents{Folder: folder.toDomain(), Quizzes: summaries(rows)}, nil
}

// DeleteFolder removes an owned folder and returns the ids of the quizzes
// that were linked to it. The quizzes stay; only the links go.
func (s *Store) DeleteFolder(ctx context.Context, ownerID, folderID int64) ([]int64, error) {
	var linked []int64
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if linked, err = linkedQuizIDs(ctx, tx, ownerID, []int64{folderID}); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*folderRow)(nil)).
			Where("id = ?", folderID).
			Where("user_id = ?", ownerID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrFolderNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return linked, nil
}

// DeleteFolders removes the owned folders among folderIDs. It reports how many
// went and which quizzes lost a link.
func (s *Store) DeleteFolders(ctx context.Context, ownerID int64, folderIDs []int64) (int64, []int64, error) {
	ids := dedupe(folderIDs)
	if len(ids) == 0 {
		return 0, nil, nil
	}
	var (
		deleted int64
		linked  []int64
	)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if linked, err = linkedQuizIDs(ctx, tx, ownerID, ids); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*folderRow)(nil)).
			Where("user_id = ?", ownerID).
			Where("id IN (?)", bun.In(ids)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete folders: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return deleted, linked, nil
}

// linkedQuizIDs lists the quizzes linked to the owned folders among folderIDs.
func linkedQuizIDs(ctx context.Context, db bun.IDB, ownerID int64, folderIDs []int64) ([]int64, error) {
	var ids []int64
	if err := db.NewSelect().Model((*quizFolderRow)(nil)).
		ColumnExpr("DISTINCT qf.quiz_id").
		Join("JOIN folders AS f ON f.id = qf.folder_id").
		Where("f.user_id = ?", ownerID).
		Where("qf.folder_id IN (?)", bun.In(folderIDs)).
		OrderExpr("qf.quiz_id ASC").
		Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("select linked quizzes: %w", err)
	}
	return ids, nil
}

// RemoveQuizzesFromFolder unlinks quizIDs from an owned folder. The quizzes themselves are untouched.
func (s *Store) RemoveQuizzesFromFolder(ctx context.Context, ownerID, folderID int64, quizIDs []int64) (int64, error) {
	var removed int64
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := folderByID(ctx, tx, ownerID, folderID); err != nil {
			return err
		}
		ids := dedupe(quizIDs)
		if len(ids) == 0 {
			return nil
		}
		res, err := tx.NewDelete().Model((*quizFolderRow)(nil)).
			Where("folder_id = ?", folderID).
			Where("quiz_id IN (?)", bun.In(ids)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete quiz folders: %w", err)
		}
		removed, _ = res.RowsAffected()
		return nil
	})
	return removed, err
}

// AddQuizzesToFolder links the owned quizzes among quizIDs to an owned folder.
// Existing links are left as they are and not counted.
func (s *Store) AddQuizzesToFolder(ctx context.Context, ownerID, folderID int64, quizIDs []int64) (int64, error) {
	var added int64
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := folderByID(ctx, tx, ownerID, folderID); err != nil {
			return err
		}
		owned, err := ownedQuizIDs(ctx, tx, ownerID, quizIDs)
		if err != nil {
			return err
		}
		if len(owned) == 0 {
			return nil
		}
		links := make([]quizFolderRow, 0, len(owned))
		for _, id := range owned {
			links = append(links, quizFolderRow{QuizID: id, FolderID: folderID})
		}
		res, err := tx.NewInsert().Model(&links).Ignore().Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert quiz folders: %w", err)
		}
		added, _ = res.RowsAffected()
		return nil
	})
	return added, err
}

func folderByID(ctx context.Context, db bun.IDB, ownerID, folderID int64) (folderRow, error) {
	var row folderRow
	err := db.NewSelect().Model(&row).
		Where("id = ?", folderID).
		Where("user_id = ?", ownerID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return folderRow{}, domain.ErrFolderNotFound
	}
	if err != nil {
		return folderRow{}, fmt.Errorf("select folder: %w", err)
	}
	return row, nil
}
