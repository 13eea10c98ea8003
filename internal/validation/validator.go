package validation

import (
	"errors"
	"fmt"
	"strings"

	"flash-me/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator checks caller input before it reaches the domain.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

type createTaskRequest struct {
	Text   string `validate:"required"`
	UserID string `validate:"omitempty,max=64"`
}

// ValidateCreateTask checks the already-trimmed text against maxTextLength
// characters and the optional owner id.
func (v *Validator) ValidateCreateTask(text, userID string, maxTextLength int) error {
	if err := v.validate.Struct(createTaskRequest{Text: text, UserID: userID}); err != nil {
		return toDomainError(err)
	}
	if maxTextLength > 0 {
		if err := v.validate.Var(text, fmt.Sprintf("max=%d", maxTextLength)); err != nil {
			return domain.NewInvalidInputError(
				fmt.Sprintf("text must not exceed %d characters", maxTextLength), err)
		}
	}
	return nil
}

// ValidateTaskID checks that taskID is a ULID.
func (v *Validator) ValidateTaskID(taskID string) error {
	if strings.TrimSpace(taskID) == "" {
		return domain.NewInvalidInputError("task_id is required", nil)
	}
	if err := v.validate.Var(taskID, "ulid"); err != nil {
		return domain.NewInvalidInputError(fmt.Sprintf("task_id has an invalid format: %s", taskID), err)
	}
	return nil
}

type listTasksRequest struct {
	UserID string `validate:"required,max=64"`
	Page   int    `validate:"gte=1"`
	Limit  int    `validate:"gte=1,lte=100"`
}

// ValidateListTasks checks the owner id and pagination of a task listing.
func (v *Validator) ValidateListTasks(userID string, page, limit int) error {
	if err := v.validate.Struct(listTasksRequest{UserID: userID, Page: page, Limit: limit}); err != nil {
		return toDomainError(err)
	}
	return nil
}

type listQuestionsRequest struct {
	UserID string `validate:"required,max=64"`
	Limit  int    `validate:"gte=1,lte=100"`
}

// ValidateListQuestions checks the owner id and limit of a question listing.
func (v *Validator) ValidateListQuestions(userID string, limit int) error {
	if err := v.validate.Struct(listQuestionsRequest{UserID: userID, Limit: limit}); err != nil {
		return toDomainError(err)
	}
	return nil
}

type addQuestionRequest struct {
	UserID  string   `validate:"required,max=64"`
	TaskID  string   `validate:"required,ulid"`
	Content string   `validate:"required"`
	Answers []string `validate:"required,min=1,dive,required"`
}

// ValidateAddQuestion checks a question a user adds to one of their tasks.
// answers holds the answer texts in display order.
func (v *Validator) ValidateAddQuestion(userID, taskID, content string, answers []string) error {
	req := addQuestionRequest{UserID: userID, TaskID: taskID, Content: content, Answers: answers}
	if err := v.validate.Struct(req); err != nil {
		return toDomainError(err)
	}
	return nil
}

type submitAnswerRequest struct {
	UserID     string `validate:"required,max=64"`
	QuestionID string `validate:"required,ulid"`
	AnswerID   string `validate:"required,ulid"`
}

// ValidateSubmitAnswer checks an answer submission.
func (v *Validator) ValidateSubmitAnswer(userID, questionID, answerID string) error {
	req := submitAnswerRequest{UserID: userID, QuestionID: questionID, AnswerID: answerID}
	if err := v.validate.Struct(req); err != nil {
		return toDomainError(err)
	}
	return nil
}

var fieldNames = map[string]string{
	"Text":       "text",
	"UserID":     "user_id",
	"Page":       "page",
	"Limit":      "limit",
	"TaskID":     "task_id",
	"Content":    "question",
	"Answers":    "answers",
	"QuestionID": "question_id",
	"AnswerID":   "answer_id",
}

func toDomainError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return domain.NewInvalidInputError("invalid input", err)
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field, ok := fieldNames[fe.Field()]
		if !ok {
			field = strings.ToLower(fe.Field())
		}
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "max", "lte":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s needs at least %s entries", field, fe.Param()))
		case "ulid":
			messages = append(messages, fmt.Sprintf("%s has an invalid format", field))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return domain.NewInvalidInputError(strings.Join(messages, "; "), err)
}
