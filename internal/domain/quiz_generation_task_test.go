package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAnswer(t *testing.T, content string, correct bool) *Answer {
	t.Helper()
	a, err := NewAnswer("", content, correct)
	require.NoError(t, err)
	return a
}

func mustQuestion(t *testing.T, content string, answers ...*Answer) *Question {
	t.Helper()
	q, err := NewQuestion("", content, answers)
	require.NoError(t, err)
	return q
}

func TestNewAnswer(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		content string
		wantErr bool
	}{
		{"generates id", "", "Light into energy", false},
		{"keeps id", "01HZX3J9Q5V6W7X8Y9Z0A1B2C3", "Light into energy", false},
		{"empty content", "", "", true},
		{"blank content", "", "   \t", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAnswer(tt.id, tt.content, true)
			if tt.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "answer.content", vErr.Field)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, a.ID())
			if tt.id != "" {
				assert.Equal(t, tt.id, a.ID())
			}
			assert.Equal(t, tt.content, a.Content())
			assert.True(t, a.IsCorrect())
		})
	}
}

func TestNewQuestion(t *testing.T) {
	right := mustAnswer(t, "Light into energy", true)
	wrong := mustAnswer(t, "Water into oxygen", false)

	tests := []struct {
		name    string
		content string
		answers []*Answer
		errText string
	}{
		{"valid", "What does photosynthesis convert?", []*Answer{right, wrong}, ""},
		{"empty content", " ", []*Answer{right}, "content is required"},
		{"no answers", "Q?", nil, "at least one answer is required"},
		{"no correct answer", "Q?", []*Answer{wrong}, "at least one answer must be correct"},
		{"nil answer", "Q?", []*Answer{right, nil}, "answer 1 is nil"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuestion("", tt.content, tt.answers)
			if tt.errText != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
				assert.Nil(t, q)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, q.ID())
			assert.Equal(t, tt.content, q.Content())
			assert.Equal(t, tt.answers, q.Answers())
		})
	}
}

func TestQuestion_AnswersIsACopy(t *testing.T) {
	q := mustQuestion(t, "Q?", mustAnswer(t, "A", true), mustAnswer(t, "B", false))
	answers := q.Answers()
	answers[0] = nil
	assert.NotNil(t, q.Answers()[0])
}

func TestNewQuizGenerationTask(t *testing.T) {
	task, err := NewQuizGenerationTask("Photosynthesis converts light into energy.", "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID())
	assert.Equal(t, TaskStatusPending, task.Status())
	assert.Equal(t, "Photosynthesis converts light into energy.", task.Title())
	assert.Equal(t, "user-1", task.UserID())
	assert.Empty(t, task.Questions())
	assert.Nil(t, task.GeneratedAt())
	assert.False(t, task.CreatedAt().IsZero())
	assert.Equal(t, task.CreatedAt(), task.UpdatedAt())

	_, err = NewQuizGenerationTask("  \n ", "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "textContent", vErr.Field)

	_, err = NewQuizGenerationTask(strings.Repeat("a", MaxTextContentLength+1), "")
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "must not exceed")

	_, err = NewQuizGenerationTask(strings.Repeat("é", MaxTextContentLength), "")
	assert.NoError(t, err, "length is counted in characters, not bytes")
}

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "Chapter 1", deriveTitle("\n\n  Chapter 1  \nbody text"))
	assert.Equal(t, "", deriveTitle(" \n\t\n"))

	long := strings.Repeat("x", maxTitleLength+20)
	assert.Equal(t, strings.Repeat("x", maxTitleLength), deriveTitle(long))
}

func TestQuizGenerationTask_MarkCompleted(t *testing.T) {
	task, err := NewQuizGenerationTask("text", "")
	require.NoError(t, err)

	require.Error(t, task.MarkCompleted(nil), "completion requires questions")
	assert.Equal(t, TaskStatusPending, task.Status())

	q := mustQuestion(t, "Q?", mustAnswer(t, "A", true))
	require.NoError(t, task.MarkCompleted([]*Question{q}))
	assert.Equal(t, TaskStatusCompleted, task.Status())
	assert.Len(t, task.Questions(), 1)
	require.NotNil(t, task.GeneratedAt())

	err = task.MarkFailed()
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, TaskStatusCompleted, task.Status())
	assert.Len(t, task.Questions(), 1)

	assert.ErrorIs(t, task.MarkCompleted([]*Question{q}), ErrInvalidStatusTransition)
	assert.ErrorIs(t, task.MarkInProgress(), ErrInvalidStatusTransition)
}

func TestQuizGenerationTask_MarkFailed(t *testing.T) {
	task, err := NewQuizGenerationTask("text", "")
	require.NoError(t, err)
	require.NoError(t, task.MarkInProgress())
	assert.Equal(t, TaskStatusInProgress, task.Status())

	require.NoError(t, task.MarkFailed())
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Empty(t, task.Questions())
	assert.NotNil(t, task.GeneratedAt())

	q := mustQuestion(t, "Q?", mustAnswer(t, "A", true))
	assert.ErrorIs(t, task.MarkCompleted([]*Question{q}), ErrInvalidStatusTransition)
	assert.ErrorIs(t, task.MarkFailed(), ErrInvalidStatusTransition)
	assert.Empty(t, task.Questions())
}

func TestQuizGenerationTask_JSONRoundTrip(t *testing.T) {
	task, err := NewQuizGenerationTask("Photosynthesis\nconverts light.", "user-1")
	require.NoError(t, err)
	q := mustQuestion(t, "What does photosynthesis convert?",
		mustAnswer(t, "Light into energy", true),
		mustAnswer(t, "Water into oxygen", false),
	)
	require.NoError(t, task.MarkCompleted([]*Question{q}))

	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"COMPLETED"`)
	assert.Contains(t, string(data), `"isCorrect":true`)

	var decoded QuizGenerationTask
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, task.ID(), decoded.ID())
	assert.Equal(t, task.Title(), decoded.Title())
	require.Len(t, decoded.Questions(), 1)
	answers := decoded.Questions()[0].Answers()
	require.Len(t, answers, 2)
	assert.Equal(t, "Light into energy", answers[0].Content())
	assert.True(t, answers[0].IsCorrect())
	assert.True(t, task.GeneratedAt().Equal(*decoded.GeneratedAt()))
}

func TestRehydrateQuizGenerationTask_Invariants(t *testing.T) {
	question := QuestionSnapshot{
		ID:      "q1",
		Content: "Q?",
		Answers: []AnswerSnapshot{{ID: "a1", Content: "A", IsCorrect: true}},
	}

	tests := []struct {
		name     string
		snapshot TaskSnapshot
		wantErr  bool
	}{
		{"completed with questions", TaskSnapshot{ID: "t1", TextContent: "x", Status: TaskStatusCompleted, Questions: []QuestionSnapshot{question}}, false},
		{"failed without questions", TaskSnapshot{ID: "t1", TextContent: "x", Status: TaskStatusFailed}, false},
		{"completed without questions", TaskSnapshot{ID: "t1", TextContent: "x", Status: TaskStatusCompleted}, true},
		{"failed with questions", TaskSnapshot{ID: "t1", TextContent: "x", Status: TaskStatusFailed, Questions: []QuestionSnapshot{question}}, true},
		{"unknown status", TaskSnapshot{ID: "t1", TextContent: "x", Status: "DONE"}, true},
		{"missing id", TaskSnapshot{TextContent: "x", Status: TaskStatusPending}, true},
		{"question without correct answer", TaskSnapshot{ID: "t1", TextContent: "x", Status: TaskStatusCompleted, Questions: []QuestionSnapshot{{
			ID: "q1", Content: "Q?", Answers: []AnswerSnapshot{{ID: "a1", Content: "A"}},
		}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := RehydrateQuizGenerationTask(tt.snapshot)
			if tt.wantErr {
				var vErr *ValidationError
				assert.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.snapshot.Status, task.Status())
			assert.Len(t, task.Questions(), len(tt.snapshot.Questions))
		})
	}
}

func TestQuizGenerationTask_AddQuestion(t *testing.T) {
	task, err := NewQuizGenerationTask("Cells divide by mitosis.", "user-1")
	require.NoError(t, err)

	extra := mustQuestion(t, "How do cells divide?", mustAnswer(t, "Mitosis", true), mustAnswer(t, "Osmosis", false))
	err = task.AddQuestion(extra)
	assert.True(t, errors.Is(err, ErrTaskNotCompleted), "pending task: %v", err)

	first := mustQuestion(t, "What divides?", mustAnswer(t, "Cells", true))
	require.NoError(t, task.MarkCompleted([]*Question{first}))
	before := task.UpdatedAt()

	require.NoError(t, task.AddQuestion(extra))
	questions := task.Questions()
	require.Len(t, questions, 2)
	assert.Equal(t, first.ID(), questions[0].ID())
	assert.Equal(t, extra.ID(), questions[1].ID())
	assert.False(t, task.UpdatedAt().Before(before))

	var validationErr *ValidationError
	assert.ErrorAs(t, task.AddQuestion(extra), &validationErr, "duplicate id")
	assert.ErrorAs(t, task.AddQuestion(nil), &validationErr)

	failed, err := NewQuizGenerationTask("text", "")
	require.NoError(t, err)
	require.NoError(t, failed.MarkFailed())
	assert.ErrorIs(t, failed.AddQuestion(extra), ErrTaskNotCompleted)
}

func TestQuizGenerationTask_Lookups(t *testing.T) {
	right := mustAnswer(t, "Mitosis", true)
	wrong := mustAnswer(t, "Osmosis", false)
	alsoRight := mustAnswer(t, "Cell division", true)
	q := mustQuestion(t, "How do cells divide?", wrong, right, alsoRight)

	task, err := NewQuizGenerationTask("Cells divide by mitosis.", "")
	require.NoError(t, err)
	require.NoError(t, task.MarkCompleted([]*Question{q}))

	found, ok := task.Question(q.ID())
	require.True(t, ok)
	assert.Same(t, q, found)
	_, ok = task.Question("missing")
	assert.False(t, ok)

	a, ok := q.Answer(right.ID())
	require.True(t, ok)
	assert.Same(t, right, a)
	_, ok = q.Answer("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{right.ID(), alsoRight.ID()}, q.CorrectAnswerIDs())
}

func TestTaskQuestion_MarshalJSON(t *testing.T) {
	q := mustQuestion(t, "How do cells divide?", mustAnswer(t, "Mitosis", true))
	data, err := json.Marshal(TaskQuestion{TaskID: "01HZX3J9Q5V6W7X8Y9Z0A1B2C3", Question: q})
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "01HZX3J9Q5V6W7X8Y9Z0A1B2C3", body["taskId"])
	assert.Equal(t, q.ID(), body["id"])
	assert.Equal(t, "How do cells divide?", body["content"])
	assert.Len(t, body["answers"], 1)
}
