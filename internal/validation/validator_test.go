package validation

import (
	"strings"
	"testing"

	"flash-me/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreateTask(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		text      string
		userID    string
		maxLength int
		errText   string
	}{
		{"valid", "Photosynthesis converts light into energy.", "user-1", 100, ""},
		{"valid without user", "text", "", 100, ""},
		{"empty text", "", "", 100, "text is required"},
		{"too long", strings.Repeat("a", 11), "", 10, "text must not exceed 10 characters"},
		{"multibyte counted as characters", strings.Repeat("가", 10), "", 10, ""},
		{"user id too long", "text", strings.Repeat("u", 65), 100, "user_id must be at most 64"},
		{"no bound", strings.Repeat("a", 1000), "", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCreateTask(tt.text, tt.userID, tt.maxLength)
			if tt.errText == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, domain.IsInvalidInputError(err))
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestValidateTaskID(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateTaskID("01ARZ3NDEKTSV4RRFFQ69G5FAV"))

	err := v.ValidateTaskID(" ")
	assert.True(t, domain.IsInvalidInputError(err))
	assert.Contains(t, err.Error(), "task_id is required")

	err = v.ValidateTaskID("not-a-ulid")
	assert.True(t, domain.IsInvalidInputError(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestValidateListTasks(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateListTasks("user-1", 1, 10))
	assert.NoError(t, v.ValidateListTasks("user-1", 3, 100))

	err := v.ValidateListTasks("", 1, 10)
	assert.Contains(t, err.Error(), "user_id is required")

	err = v.ValidateListTasks("user-1", 0, 10)
	assert.Contains(t, err.Error(), "page must be at least 1")

	err = v.ValidateListTasks("user-1", 1, 101)
	assert.Contains(t, err.Error(), "limit must be at most 100")
	assert.True(t, domain.IsInvalidInputError(err))
}

func TestValidateListQuestions(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateListQuestions("user-1", 10))

	err := v.ValidateListQuestions("", 10)
	assert.Contains(t, err.Error(), "user_id is required")

	err = v.ValidateListQuestions("user-1", 0)
	assert.Contains(t, err.Error(), "limit must be at least 1")

	err = v.ValidateListQuestions("user-1", 101)
	assert.Contains(t, err.Error(), "limit must be at most 100")
	assert.True(t, domain.IsInvalidInputError(err))
}

func TestValidateAddQuestion(t *testing.T) {
	v := NewValidator()
	taskID := "01ARZ3NDEKTSV4RRFFQ69G5FAV"

	tests := []struct {
		name    string
		userID  string
		taskID  string
		content string
		answers []string
		errText string
	}{
		{"valid", "user-1", taskID, "What is ATP?", []string{"Energy carrier", "A sugar"}, ""},
		{"missing user", "", taskID, "What is ATP?", []string{"Energy carrier"}, "user_id is required"},
		{"bad task id", "user-1", "task-1", "What is ATP?", []string{"Energy carrier"}, "task_id has an invalid format"},
		{"missing question", "user-1", taskID, "", []string{"Energy carrier"}, "question is required"},
		{"no answers", "user-1", taskID, "What is ATP?", nil, "answers is required"},
		{"empty answer list", "user-1", taskID, "What is ATP?", []string{}, "answers needs at least 1 entries"},
		{"blank answer", "user-1", taskID, "What is ATP?", []string{"Energy carrier", ""}, "answers[1] is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateAddQuestion(tt.userID, tt.taskID, tt.content, tt.answers)
			if tt.errText == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, domain.IsInvalidInputError(err))
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestValidateSubmitAnswer(t *testing.T) {
	v := NewValidator()
	id := "01ARZ3NDEKTSV4RRFFQ69G5FAV"

	assert.NoError(t, v.ValidateSubmitAnswer("user-1", id, id))

	err := v.ValidateSubmitAnswer("", id, id)
	assert.Contains(t, err.Error(), "user_id is required")

	err = v.ValidateSubmitAnswer("user-1", "q1", id)
	assert.Contains(t, err.Error(), "question_id has an invalid format")

	err = v.ValidateSubmitAnswer("user-1", id, "")
	assert.Contains(t, err.Error(), "answer_id is required")
	assert.True(t, domain.IsInvalidInputError(err))
}
