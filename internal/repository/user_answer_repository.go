package repository

import (
	"context"
	"errors"
	"fmt"

	"flash-me/internal/domain"
	"flash-me/internal/repository/models"
	"flash-me/internal/util"

	"github.com/jmoiron/sqlx"
)

const insertUserAnswerQuery = `INSERT INTO user_answers (
		id, user_id, question_id, answer_id, is_correct, answered_at
	) VALUES (
		:id, :user_id, :question_id, :answer_id, :is_correct, :answered_at
	)`

// UserAnswerDatabaseAdapter stores submitted answers.
type UserAnswerDatabaseAdapter struct {
	db DBTX
}

// NewUserAnswerDatabaseAdapter creates a new user answer store.
func NewUserAnswerDatabaseAdapter(db *sqlx.DB) domain.UserAnswerStore {
	return &UserAnswerDatabaseAdapter{db: db}
}

// SaveUserAnswer implements domain.UserAnswerStore
func (a *UserAnswerDatabaseAdapter) SaveUserAnswer(ctx context.Context, answer *domain.UserAnswer) error {
	if answer == nil {
		return errors.New("user answer cannot be nil")
	}
	row := models.UserAnswer{
		ID:         answer.ID(),
		UserID:     answer.UserID(),
		QuestionID: answer.QuestionID(),
		AnswerID:   answer.AnswerID(),
		IsCorrect:  util.BoolToInt(answer.IsCorrect()),
		AnsweredAt: answer.AnsweredAt(),
	}
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, insertUserAnswerQuery, row); err != nil {
		return fmt.Errorf("failed to insert user answer %s: %w", row.ID, err)
	}
	return nil
}
