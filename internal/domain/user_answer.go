package domain

import (
	"context"
	"strings"
	"time"

	"flash-me/internal/util"
)

// UserAnswer records the answer a user picked for a question.
type UserAnswer struct {
	id         string
	userID     string
	questionID string
	answerID   string
	isCorrect  bool
	answeredAt time.Time
}

// NewUserAnswer records that userID picked answer for question.
func NewUserAnswer(userID string, question *Question, answer *Answer) (*UserAnswer, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewValidationError("userId", "user id is required")
	}
	if question == nil || answer == nil {
		return nil, NewValidationError("answer", "question and answer are required")
	}
	if _, ok := question.Answer(answer.id); !ok {
		return nil, NewValidationError("answer", "answer does not belong to the question")
	}
	return &UserAnswer{
		id:         util.NewULID(),
		userID:     userID,
		questionID: question.id,
		answerID:   answer.id,
		isCorrect:  answer.isCorrect,
		answeredAt: time.Now(),
	}, nil
}

func (u *UserAnswer) ID() string            { return u.id }
func (u *UserAnswer) UserID() string        { return u.userID }
func (u *UserAnswer) QuestionID() string    { return u.questionID }
func (u *UserAnswer) AnswerID() string      { return u.answerID }
func (u *UserAnswer) IsCorrect() bool       { return u.isCorrect }
func (u *UserAnswer) AnsweredAt() time.Time { return u.answeredAt }

// UserAnswerStore persists submitted answers.
type UserAnswerStore interface {
	SaveUserAnswer(ctx context.Context, answer *UserAnswer) error
}
