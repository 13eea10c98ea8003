package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"flash-me/internal/domain"
	"flash-me/internal/validation"

	"go.uber.org/zap"
)

// CreateQuizGenerationTaskInput is the request of the create use case.
type CreateQuizGenerationTaskInput struct {
	Text   string
	UserID string
}

// CreateQuizGenerationTaskOutput carries the task in its final state.
type CreateQuizGenerationTaskOutput struct {
	QuizGenerationTask *domain.QuizGenerationTask
}

// CreateQuizGenerationTask turns a block of text into a persisted quiz
// generation task with generated questions.
type CreateQuizGenerationTask struct {
	generator     domain.QuizGenerationService
	store         domain.QuizGenerationTaskStore
	validator     *validation.Validator
	maxTextLength int
	logger        *zap.Logger
}

// NewCreateQuizGenerationTask creates the use case. A maxTextLength outside
// (0, domain.MaxTextContentLength] falls back to domain.MaxTextContentLength.
func NewCreateQuizGenerationTask(
	generator domain.QuizGenerationService,
	store domain.QuizGenerationTaskStore,
	validator *validation.Validator,
	maxTextLength int,
	logger *zap.Logger,
) *CreateQuizGenerationTask {
	if maxTextLength <= 0 || maxTextLength > domain.MaxTextContentLength {
		maxTextLength = domain.MaxTextContentLength
	}
	if validator == nil {
		validator = validation.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateQuizGenerationTask{
		generator:     generator,
		store:         store,
		validator:     validator,
		maxTextLength: maxTextLength,
		logger:        logger,
	}
}

// Execute validates the input, asks the generator for questions and stores the
// resulting task. Tasks that fail after creation are stored as FAILED on a
// best-effort basis before the error is returned.
func (uc *CreateQuizGenerationTask) Execute(ctx context.Context, input CreateQuizGenerationTaskInput) (*CreateQuizGenerationTaskOutput, error) {
	text := strings.TrimSpace(input.Text)
	userID := strings.TrimSpace(input.UserID)

	if err := uc.validator.ValidateCreateTask(text, userID, uc.maxTextLength); err != nil {
		return nil, err
	}

	task, err := domain.NewQuizGenerationTask(text, userID)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid quiz generation request", err)
	}

	log := uc.logger.With(zap.String("task_id", task.ID()), zap.String("user_id", userID))
	log.Info("Quiz generation task created", zap.Int("text_length", utf8.RuneCountInString(text)))

	drafts, err := uc.generator.GenerateQuiz(ctx, text)
	if err != nil {
		log.Error("Quiz generation failed", zap.Error(err))
		uc.persistFailure(ctx, task, log)
		return nil, domain.NewLLMServiceError(err)
	}
	if len(drafts) == 0 {
		log.Warn("Generator returned no questions")
		uc.persistFailure(ctx, task, log)
		return nil, domain.NewNoQuestionsGeneratedError()
	}

	questions, err := buildQuestions(drafts)
	if err != nil {
		log.Warn("Generator returned a malformed question", zap.Error(err))
		uc.persistFailure(ctx, task, log)
		return nil, domain.NewMalformedGenerationResultError(err)
	}

	if err := task.MarkCompleted(questions); err != nil {
		return nil, domain.NewInternalError("failed to complete quiz generation task", err)
	}

	if err := uc.store.SaveTask(ctx, task); err != nil {
		log.Error("Failed to save completed quiz generation task", zap.Error(err))
		return nil, domain.NewQuizStorageError(err)
	}

	log.Info("Quiz generation task completed", zap.Int("questions", len(questions)))
	return &CreateQuizGenerationTaskOutput{QuizGenerationTask: task}, nil
}

// persistFailure marks the task FAILED and tries once to store it. Errors are
// logged and dropped so the caller keeps reporting the original failure.
func (uc *CreateQuizGenerationTask) persistFailure(ctx context.Context, task *domain.QuizGenerationTask, log *zap.Logger) {
	if err := task.MarkFailed(); err != nil {
		log.Warn("Could not mark quiz generation task as failed", zap.Error(err))
		return
	}
	// The request context may already be cancelled by the time generation fails.
	if err := uc.store.SaveTask(context.WithoutCancel(ctx), task); err != nil {
		log.Warn("Failed to save failed quiz generation task", zap.Error(err))
	}
}

func buildQuestions(drafts []domain.QuestionDraft) ([]*domain.Question, error) {
	questions := make([]*domain.Question, 0, len(drafts))
	for _, d := range drafts {
		answers := make([]*domain.Answer, 0, len(d.Answers))
		for _, ad := range d.Answers {
			a, err := domain.NewAnswer("", ad.Text, ad.IsCorrect)
			if err != nil {
				return nil, err
			}
			answers = append(answers, a)
		}
		q, err := domain.NewQuestion("", d.Question, answers)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}
