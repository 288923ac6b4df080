package domain

import "time"

// User is the public view of an account; the password hash never leaves the store.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Folder groups quizzes through the quiz_folders join table. It owns no quizzes.
type Folder struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"userId"`
}

// Option is a possible answer for a question.
type Option struct {
	ID         int64  `json:"id"`
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
	QuestionID int64  `json:"questionId"`
}

// Question belongs to exactly one quiz and keeps its options in insertion order.
type Question struct {
	ID           int64    `json:"id"`
	QuestionText string   `json:"questionText"`
	QuizID       int64    `json:"quizId"`
	Options      []Option `json:"options"`
}

// QuizSummary is the quiz row without its nested content, used by list views.
type QuizSummary struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	TimePerQuestion int    `json:"timePerQuestion"` // seconds, 0 = untimed
	UserID          int64  `json:"userId"`
}

// Quiz is the full aggregate: quiz row, questions, options and folder memberships.
type Quiz struct {
	QuizSummary
	Questions []Question `json:"questions"`
	FolderIDs []int64    `json:"folderIds"`
}

// OptionInput is an option as submitted by the editor.
type OptionInput struct {
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
}

// QuestionInput is a question as submitted by the editor.
type QuestionInput struct {
	QuestionText string        `json:"questionText"`
	Options      []OptionInput `json:"options"`
}

// QuizInput is the payload for creating or replacing a quiz.
type QuizInput struct {
	Title           string          `json:"title"`
	TimePerQuestion int             `json:"timePerQuestion"`
	FolderIDs       []int64         `json:"folderIds"`
	Questions       []QuestionInput `json:"questions"`
}

// FolderContents is a folder together with the quizzes linked to it.
type FolderContents struct {
	Folder  Folder        `json:"folder"`
	Quizzes []QuizSummary `json:"quizzes"`
}

// Dashboard lists every folder and every quiz of a user, regardless of membership.
type Dashboard struct {
	Folders []Folder      `json:"folders"`
	Quizzes []QuizSummary `json:"quizzes"`
}

// PlayOption hides correctness from the player.
type PlayOption struct {
	ID         int64  `json:"id"`
	OptionText string `json:"optionText"`
}

// PlayQuestion is the question a player currently has to answer.
type PlayQuestion struct {
	SessionID    string       `json:"sessionId"`
	QuestionID   int64        `json:"questionId"`
	QuestionText string       `json:"questionText"`
	Options      []PlayOption `json:"options"`
	Index        int          `json:"index"`
	Total        int          `json:"total"`
	Deadline     *time.Time   `json:"deadline,omitempty"`
}

// AnswerResult summarizes the outcome of one submitted answer.
type AnswerResult struct {
	QuestionID      int64 `json:"questionId"`
	Correct         bool  `json:"correct"`
	CorrectOptionID int64 `json:"correctOptionId"`
	TimedOut        bool  `json:"timedOut"`
	Score           int   `json:"score"`
	Finished        bool  `json:"finished"`
}

// PlayResult is the final score of a play session.
type PlayResult struct {
	QuizID     int64  `json:"quizId"`
	Title      string `json:"title"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Feedback   string `json:"feedback"`
}
