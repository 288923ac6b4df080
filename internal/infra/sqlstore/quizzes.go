package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-studio-service/internal/domain"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// CreateQuiz writes the quiz row, its folder links, questions and options in
// one transaction and returns the new quiz id.
func (s *Store) CreateQuiz(ctx context.Context, ownerID int64, in domain.QuizInput) (int64, error) {
	var quizID int64
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := quizRow{Title: in.Title, TimePerQuestion: in.TimePerQuestion, UserID: ownerID}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("insert quiz: %w", err)
		}
		quizID = row.ID

		if err := linkOwnedFolders(ctx, tx, ownerID, quizID, in.FolderIDs); err != nil {
			return err
		}
		return insertQuestions(ctx, tx, quizID, in.Questions)
	})
	if err != nil {
		return 0, err
	}
	return quizID, nil
}

// LoadQuiz assembles the full aggregate of a quiz owned by ownerID. The reads
// share one snapshot so a concurrent update is never seen half applied.
func (s *Store) LoadQuiz(ctx context.Context, ownerID, quizID int64) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if s.db.Dialect().Name() == dialect.PG {
			// pgdriver rejects isolation options on BeginTx
			if _, err := tx.ExecContext(ctx, "SET TRANSACTION ISOLATION LEVEL REPEATABLE READ, READ ONLY"); err != nil {
				return fmt.Errorf("set snapshot: %w", err)
			}
		}
		var err error
		quiz, err = loadQuiz(ctx, tx, ownerID, quizID)
		return err
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func loadQuiz(ctx context.Context, db bun.IDB, ownerID, quizID int64) (domain.Quiz, error) {
	var row quizRow
	err := db.NewSelect().Model(&row).
		Where("id = ?", quizID).
		Where("user_id = ?", ownerID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("select quiz: %w", err)
	}

	var questions []questionRow
	if err := db.NewSelect().Model(&questions).Where("quiz_id = ?", quizID).Order("id ASC").Scan(ctx); err != nil {
		return domain.Quiz{}, fmt.Errorf("select questions: %w", err)
	}

	optionsByQuestion := make(map[int64][]domain.Option, len(questions))
	if len(questions) > 0 {
		ids := make([]int64, len(questions))
		for i, q := range questions {
			ids[i] = q.ID
		}
		var options []optionRow
		if err := db.NewSelect().Model(&options).Where("question_id IN (?)", bun.In(ids)).Order("id ASC").Scan(ctx); err != nil {
			return domain.Quiz{}, fmt.Errorf("select options: %w", err)
		}
		for _, o := range options {
			optionsByQuestion[o.QuestionID] = append(optionsByQuestion[o.QuestionID], domain.Option{
				ID:         o.ID,
				OptionText: o.OptionText,
				IsCorrect:  o.IsCorrect,
				QuestionID: o.QuestionID,
			})
		}
	}

	var folderIDs []int64
	if err := db.NewSelect().Model((*quizFolderRow)(nil)).
		Column("folder_id").
		Where("quiz_id = ?", quizID).
		Order("folder_id ASC").
		Scan(ctx, &folderIDs); err != nil {
		return domain.Quiz{}, fmt.Errorf("select quiz folders: %w", err)
	}

	quiz := domain.Quiz{
		QuizSummary: row.toSummary(),
		Questions:   make([]domain.Question, 0, len(questions)),
		FolderIDs:   folderIDs,
	}
	if quiz.FolderIDs == nil {
		quiz.FolderIDs = []int64{}
	}
	for _, q := range questions {
		opts := optionsByQuestion[q.ID]
		if opts == nil {
			opts = []domain.Option{}
		}
		quiz.Questions = append(quiz.Questions, domain.Question{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuizID:       q.QuizID,
			Options:      opts,
		})
	}
	return quiz, nil
}

// UpdateQuiz replaces the content of a quiz: the quiz row is updated in place,
// while folder links and questions are deleted and rebuilt from the payload.
// Question and option ids are regenerated on every update.
func (s *Store) UpdateQuiz(ctx context.Context, ownerID, quizID int64, in domain.QuizInput) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*quizRow)(nil)).
			Set("title = ?", in.Title).
			Set("time_per_question = ?", in.TimePerQuestion).
			Where("id = ?", quizID).
			Where("user_id = ?", ownerID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update quiz: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrQuizNotFound
		}

		if _, err := tx.NewDelete().Model((*quizFolderRow)(nil)).Where("quiz_id = ?", quizID).Exec(ctx); err != nil {
			return fmt.Errorf("delete quiz folders: %w", err)
		}
		if err := linkOwnedFolders(ctx, tx, ownerID, quizID, in.FolderIDs); err != nil {
			return err
		}

		// options follow through ON DELETE CASCADE
		if _, err := tx.NewDelete().Model((*questionRow)(nil)).Where("quiz_id = ?", quizID).Exec(ctx); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		return insertQuestions(ctx, tx, quizID, in.Questions)
	})
}

func (s *Store) DeleteQuiz(ctx context.Context, ownerID, quizID int64) error {
	res, err := s.db.NewDelete().Model((*quizRow)(nil)).
		Where("id = ?", quizID).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

// ListQuizzes returns every quiz owned by ownerID in creation order.
func (s *Store) ListQuizzes(ctx context.Context, ownerID int64) ([]domain.QuizSummary, error) {
	var rows []quizRow
	if err := s.db.NewSelect().Model(&rows).Where("user_id = ?", ownerID).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select quizzes: %w", err)
	}
	return summaries(rows), nil
}

func insertQuestions(ctx context.Context, tx bun.Tx, quizID int64, questions []domain.QuestionInput) error {
	for _, q := range questions {
		qRow := questionRow{QuestionText: q.QuestionText, QuizID: quizID}
		if _, err := tx.NewInsert().Model(&qRow).Exec(ctx); err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		if len(q.Options) == 0 {
			continue
		}
		options := make([]optionRow, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, optionRow{
				OptionText: o.OptionText,
				IsCorrect:  o.IsCorrect,
				QuestionID: qRow.ID,
			})
		}
		if _, err := tx.NewInsert().Model(&options).Exec(ctx); err != nil {
			return fmt.Errorf("insert options: %w", err)
		}
	}
	return nil
}

// linkOwnedFolders inserts one quiz_folders row per folder id that belongs to
// ownerID. Unknown or foreign folder ids are dropped silently.
func linkOwnedFolders(ctx context.Context, tx bun.Tx, ownerID, quizID int64, folderIDs []int64) error {
	owned, err := ownedFolderIDs(ctx, tx, ownerID, folderIDs)
	if err != nil {
		return err
	}
	if len(owned) == 0 {
		return nil
	}
	links := make([]quizFolderRow, 0, len(owned))
	for _, id := range owned {
		links = append(links, quizFolderRow{QuizID: quizID, FolderID: id})
	}
	if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz folders: %w", err)
	}
	return nil
}

func ownedFolderIDs(ctx context.Context, db bun.IDB, ownerID int64, folderIDs []int64) ([]int64, error) {
	ids := dedupe(folderIDs)
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	if err := db.NewSelect().Model((*folderRow)(nil)).
		Column("id").
		Where("user_id = ?", ownerID).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx, &found); err != nil {
		return nil, fmt.Errorf("select owned folders: %w", err)
	}
	return keepOrder(ids, found), nil
}

func ownedQuizIDs(ctx context.Context, db bun.IDB, ownerID int64, quizIDs []int64) ([]int64, error) {
	ids := dedupe(quizIDs)
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	if err := db.NewSelect().Model((*quizRow)(nil)).
		Column("id").
		Where("user_id = ?", ownerID).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx, &found); err != nil {
		return nil, fmt.Errorf("select owned quizzes: %w", err)
	}
	return keepOrder(ids, found), nil
}

// keepOrder filters requested down to the ids present in found, in request order.
func keepOrder(requested, found []int64) []int64 {
	set := make(map[int64]struct{}, len(found))
	for _, id := range found {
		set[id] = struct{}{}
	}
	out := make([]int64, 0, len(found))
	for _, id := range requested {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
