package models

import (
	"database/sql"
	"time"
)

// QuizGenerationTask is a row of quiz_generation_tasks.
type QuizGenerationTask struct {
	ID          string         `db:"id"`
	UserID      sql.NullString `db:"user_id"`
	TextContent string         `db:"text_content"`
	Status      string         `db:"status"`
	Title       sql.NullString `db:"title"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	GeneratedAt sql.NullTime   `db:"generated_at"`
}

// Question is a row of questions. SortOrder keeps the generated order.
type Question struct {
	ID        string `db:"id"`
	TaskID    string `db:"task_id"`
	Content   string `db:"content"`
	SortOrder int    `db:"sort_order"`
}

// Answer is a row of answers. IsCorrect is stored as a 0/1 flag.
type Answer struct {
	ID         string `db:"id"`
	QuestionID string `db:"question_id"`
	Content    string `db:"content"`
	IsCorrect  int    `db:"is_correct"`
	SortOrder  int    `db:"sort_order"`
}

// TaskSummary is a projection used by task listings.
type TaskSummary struct {
	ID             string         `db:"id"`
	Status         string         `db:"status"`
	Title          sql.NullString `db:"title"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	QuestionsCount int            `db:"questions_count"`
}

// UserAnswer is a row of user_answers.
type UserAnswer struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	QuestionID string    `db:"question_id"`
	AnswerID   string    `db:"answer_id"`
	IsCorrect  int       `db:"is_correct"`
	AnsweredAt time.Time `db:"answered_at"`
}
