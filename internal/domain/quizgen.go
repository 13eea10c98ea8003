package domain

import (
	"context"
)

// AnswerDraft is one raw answer option returned by a generation backend.
type AnswerDraft struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionDraft is one raw question returned by a generation backend, not yet
// validated as a Question.
type QuestionDraft struct {
	Question string        `json:"question"`
	Answers  []AnswerDraft `json:"answers"`
}

// QuizGenerationService defines the interface for generating quiz questions from text.
type QuizGenerationService interface {
	// GenerateQuiz returns question drafts for text. An empty slice with a nil
	// error means no questions could be generated.
	GenerateQuiz(ctx context.Context, text string) ([]QuestionDraft, error)
}
