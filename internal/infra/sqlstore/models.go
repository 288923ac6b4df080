package sqlstore

import (
	"quiz-studio-service/internal/domain"

	"github.com/uptrace/bun"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Username string `bun:"username,notnull"`
	Email    string `bun:"email,notnull"`
	Password string `bun:"password,notnull"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{ID: r.ID, Username: r.Username, Email: r.Email}
}

type folderRow struct {
	bun.BaseModel `bun:"table:folders,alias:f"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Name   string `bun:"name,notnull"`
	UserID int64  `bun:"user_id,notnull"`
}

func (r folderRow) toDomain() domain.Folder {
	return domain.Folder{ID: r.ID, Name: r.Name, UserID: r.UserID}
}

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:qz"`

	ID              int64  `bun:"id,pk,autoincrement"`
	Title           string `bun:"title,notnull"`
	TimePerQuestion int    `bun:"time_per_question,notnull"`
	UserID          int64  `bun:"user_id,notnull"`
}

func (r quizRow) toSummary() domain.QuizSummary {
	return domain.QuizSummary{ID: r.ID, Title: r.Title, TimePerQuestion: r.TimePerQuestion, UserID: r.UserID}
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:qn"`

	ID           int64  `bun:"id,pk,autoincrement"`
	QuestionText string `bun:"question_text,notnull"`
	QuizID       int64  `bun:"quiz_id,notnull"`
}

type optionRow struct {
	bun.BaseModel `bun:"table:options,alias:op"`

	ID         int64  `bun:"id,pk,autoincrement"`
	OptionText string `bun:"option_text,notnull"`
	IsCorrect  bool   `bun:"is_correct,notnull"`
	QuestionID int64  `bun:"question_id,notnull"`
}

type quizFolderRow struct {
	bun.BaseModel `bun:"table:quiz_folders,alias:qf"`

	QuizID   int64 `bun:"quiz_id,pk"`
	FolderID int64 `bun:"folder_id,pk"`
}

func summaries(rows []quizRow) []domain.QuizSummary {
	out := make([]domain.QuizSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toSummary())
	}
	return out
}

// dedupe keeps the first occurrence of every id, preserving order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
