package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserAnswer(t *testing.T) {
	right := mustAnswer(t, "Mitosis", true)
	wrong := mustAnswer(t, "Osmosis", false)
	q := mustQuestion(t, "How do cells divide?", right, wrong)
	other := mustAnswer(t, "Photosynthesis", true)

	ua, err := NewUserAnswer("user-1", q, wrong)
	require.NoError(t, err)
	assert.Len(t, ua.ID(), 26)
	assert.Equal(t, "user-1", ua.UserID())
	assert.Equal(t, q.ID(), ua.QuestionID())
	assert.Equal(t, wrong.ID(), ua.AnswerID())
	assert.False(t, ua.IsCorrect())
	assert.False(t, ua.AnsweredAt().IsZero())

	ua, err = NewUserAnswer("user-1", q, right)
	require.NoError(t, err)
	assert.True(t, ua.IsCorrect())

	var validationErr *ValidationError
	_, err = NewUserAnswer(" ", q, right)
	assert.ErrorAs(t, err, &validationErr)
	_, err = NewUserAnswer("user-1", q, other)
	assert.ErrorAs(t, err, &validationErr)
	_, err = NewUserAnswer("user-1", nil, right)
	assert.ErrorAs(t, err, &validationErr)
}
