package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Quiz generation errors
	ErrLLMServiceError           ErrorCode = "LLM_SERVICE_ERROR"
	ErrNoQuestionsGenerated      ErrorCode = "NO_QUESTIONS_GENERATED"
	ErrQuizStorage               ErrorCode = "QUIZ_STORAGE_ERROR"
	ErrMalformedGenerationResult ErrorCode = "MALFORMED_GENERATION_RESULT"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string, err error) *DomainError {
	return NewError(ErrInvalidInput, message, err)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewTaskNotFoundError(taskID string) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("Quiz generation task not found with ID: %s", taskID), nil)
}

func NewQuestionNotFoundError(questionID string) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("Question not found with ID: %s", questionID), nil)
}

func NewAnswerNotFoundError(answerID, questionID string) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("Answer %s not found for question %s", answerID, questionID), nil)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to process with LLM service", err)
}

func NewNoQuestionsGeneratedError() *DomainError {
	return NewError(ErrNoQuestionsGenerated, "No questions could be generated from the provided text", nil)
}

func NewQuizStorageError(err error) *DomainError {
	return NewError(ErrQuizStorage, "Failed to store quiz generation task", err)
}

func NewMalformedGenerationResultError(err error) *DomainError {
	return NewError(ErrMalformedGenerationResult, "Generated quiz content is malformed", err)
}

// CodeOf returns the code of the first DomainError in err's chain, or an empty code.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// HasCode reports whether err's chain contains a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &DomainError{Code: code})
}

func IsInvalidInputError(err error) bool { return HasCode(err, ErrInvalidInput) }

func IsNotFoundError(err error) bool { return HasCode(err, ErrNotFound) }

func IsLLMServiceError(err error) bool { return HasCode(err, ErrLLMServiceError) }

func IsNoQuestionsGeneratedError(err error) bool { return HasCode(err, ErrNoQuestionsGenerated) }

func IsQuizStorageError(err error) bool { return HasCode(err, ErrQuizStorage) }

func IsMalformedGenerationResultError(err error) bool {
	return HasCode(err, ErrMalformedGenerationResult)
}

// ValidationError represents a violated entity invariant
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ErrInvalidStatusTransition is returned when a task is asked to leave a terminal
// state or to move backwards.
var ErrInvalidStatusTransition = errors.New("invalid quiz generation task status transition")

// ErrTaskNotCompleted is returned when questions are added to a task that has
// not completed generation.
var ErrTaskNotCompleted = errors.New("quiz generation task is not completed")
