package domain

import (
	"context"
	"time"
)

// QuizGenerationTaskStore persists a task together with its question and answer graph.
type QuizGenerationTaskStore interface {
	SaveTask(ctx context.Context, task *QuizGenerationTask) error
}

// QuizGenerationTaskReader serves the read paths over stored tasks.
type QuizGenerationTaskReader interface {
	// FindTaskByID returns nil, nil when no task exists with taskID.
	FindTaskByID(ctx context.Context, taskID string) (*QuizGenerationTask, error)

	// FindTasksByUserID returns one page of task summaries, newest first, and the
	// total number of tasks owned by userID.
	FindTasksByUserID(ctx context.Context, userID string, page Pagination) ([]TaskSummary, int, error)

	// FindTaskByQuestionID returns the task owning questionID, or nil, nil.
	FindTaskByQuestionID(ctx context.Context, questionID string) (*QuizGenerationTask, error)

	// FindQuestionsByUserID returns up to limit questions from userID's tasks,
	// newest task first and in display order within a task.
	FindQuestionsByUserID(ctx context.Context, userID string, limit int) ([]TaskQuestion, error)
}

// QuizGenerationTaskRepository combines the write and read sides of task persistence.
type QuizGenerationTaskRepository interface {
	QuizGenerationTaskStore
	QuizGenerationTaskReader
}

// TransactionManager runs fn inside a transaction carried by the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TaskSummary is the list view of a task.
type TaskSummary struct {
	ID             string     `json:"id"`
	Status         TaskStatus `json:"status"`
	Title          string     `json:"title,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	QuestionsCount int        `json:"questionsCount"`
}
