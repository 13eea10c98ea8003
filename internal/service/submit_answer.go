package service

import (
	"context"
	"strings"

	"flash-me/internal/domain"
	"flash-me/internal/validation"

	"go.uber.org/zap"
)

// SubmitAnswerInput is a user's pick for one question.
type SubmitAnswerInput struct {
	UserID     string
	QuestionID string
	AnswerID   string
}

// SubmitAnswerOutput reports whether the pick was right.
type SubmitAnswerOutput struct {
	UserAnswer       *domain.UserAnswer
	IsCorrect        bool
	CorrectAnswerIDs []string
}

// SubmitAnswer records an answer to a question from one of the user's tasks.
type SubmitAnswer struct {
	reader    domain.QuizGenerationTaskReader
	store     domain.UserAnswerStore
	validator *validation.Validator
	logger    *zap.Logger
}

// NewSubmitAnswer creates the use case.
func NewSubmitAnswer(
	reader domain.QuizGenerationTaskReader,
	store domain.UserAnswerStore,
	validator *validation.Validator,
	logger *zap.Logger,
) *SubmitAnswer {
	if validator == nil {
		validator = validation.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmitAnswer{reader: reader, store: store, validator: validator, logger: logger}
}

// Execute checks the answer against the stored question and records it.
func (uc *SubmitAnswer) Execute(ctx context.Context, in SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	userID := strings.TrimSpace(in.UserID)
	questionID := strings.TrimSpace(in.QuestionID)
	answerID := strings.TrimSpace(in.AnswerID)
	if err := uc.validator.ValidateSubmitAnswer(userID, questionID, answerID); err != nil {
		return nil, err
	}

	log := uc.logger.With(zap.String("question_id", questionID), zap.String("user_id", userID))

	task, err := uc.reader.FindTaskByQuestionID(ctx, questionID)
	if err != nil {
		log.Error("Failed to load task for question", zap.Error(err))
		return nil, domain.NewInternalError("failed to get question", err)
	}
	if task == nil || task.UserID() != userID {
		return nil, domain.NewQuestionNotFoundError(questionID)
	}
	question, ok := task.Question(questionID)
	if !ok {
		return nil, domain.NewQuestionNotFoundError(questionID)
	}
	answer, ok := question.Answer(answerID)
	if !ok {
		return nil, domain.NewAnswerNotFoundError(answerID, questionID)
	}

	userAnswer, err := domain.NewUserAnswer(userID, question, answer)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid answer", err)
	}
	if err := uc.store.SaveUserAnswer(ctx, userAnswer); err != nil {
		log.Error("Failed to store user answer", zap.Error(err))
		return nil, domain.NewInternalError("failed to store answer", err)
	}

	log.Info("Answer submitted", zap.String("answer_id", answerID), zap.Bool("is_correct", userAnswer.IsCorrect()))
	return &SubmitAnswerOutput{
		UserAnswer:       userAnswer,
		IsCorrect:        userAnswer.IsCorrect(),
		CorrectAnswerIDs: question.CorrectAnswerIDs(),
	}, nil
}
