package service

import (
	"context"
	"errors"
	"strings"

	"flash-me/internal/cache"
	"flash-me/internal/domain"
	"flash-me/internal/validation"

	"go.uber.org/zap"
)

// AddQuestionInput is a question written by hand for an existing task.
type AddQuestionInput struct {
	UserID  string
	TaskID  string
	Content string
	Answers []domain.AnswerDraft
}

// AddQuestionOutput carries the new question and the task it now belongs to.
type AddQuestionOutput struct {
	Question           *domain.Question
	QuizGenerationTask *domain.QuizGenerationTask
}

// AddQuestion appends a question to a completed task owned by the caller.
type AddQuestion struct {
	repo      domain.QuizGenerationTaskRepository
	cache     domain.Cache
	validator *validation.Validator
	logger    *zap.Logger
}

// NewAddQuestion creates the use case. cache may be nil.
func NewAddQuestion(
	repo domain.QuizGenerationTaskRepository,
	cache domain.Cache,
	validator *validation.Validator,
	logger *zap.Logger,
) *AddQuestion {
	if validator == nil {
		validator = validation.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddQuestion{repo: repo, cache: cache, validator: validator, logger: logger}
}

// Execute loads the task, checks the owner, appends the question and stores
// the whole graph again.
func (uc *AddQuestion) Execute(ctx context.Context, in AddQuestionInput) (*AddQuestionOutput, error) {
	userID := strings.TrimSpace(in.UserID)
	taskID := strings.TrimSpace(in.TaskID)
	content := strings.TrimSpace(in.Content)
	var texts []string
	if in.Answers != nil {
		texts = make([]string, len(in.Answers))
		for i, a := range in.Answers {
			texts[i] = strings.TrimSpace(a.Text)
		}
	}
	if err := uc.validator.ValidateAddQuestion(userID, taskID, content, texts); err != nil {
		return nil, err
	}

	log := uc.logger.With(zap.String("task_id", taskID), zap.String("user_id", userID))

	task, err := uc.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		log.Error("Failed to load quiz generation task", zap.Error(err))
		return nil, domain.NewInternalError("failed to get quiz generation task", err)
	}
	if task == nil || task.UserID() != userID {
		return nil, domain.NewTaskNotFoundError(taskID)
	}

	answers := make([]*domain.Answer, 0, len(texts))
	for i, text := range texts {
		answer, err := domain.NewAnswer("", text, in.Answers[i].IsCorrect)
		if err != nil {
			return nil, domain.NewInvalidInputError("invalid answer", err)
		}
		answers = append(answers, answer)
	}
	question, err := domain.NewQuestion("", content, answers)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid question", err)
	}
	if err := task.AddQuestion(question); err != nil {
		if errors.Is(err, domain.ErrTaskNotCompleted) {
			return nil, domain.NewInvalidInputError("questions can only be added to a completed task", err)
		}
		return nil, domain.NewInvalidInputError("invalid question", err)
	}

	if err := uc.repo.SaveTask(ctx, task); err != nil {
		log.Error("Failed to store quiz generation task", zap.Error(err))
		return nil, domain.NewQuizStorageError(err)
	}
	uc.invalidate(ctx, taskID)

	log.Info("Question added", zap.String("question_id", question.ID()),
		zap.Int("questions_count", len(task.Questions())))
	return &AddQuestionOutput{Question: question, QuizGenerationTask: task}, nil
}

// invalidate drops the cached snapshot so readers see the new question.
func (uc *AddQuestion) invalidate(ctx context.Context, taskID string) {
	if uc.cache == nil {
		return
	}
	key := cache.TaskDetailKey(taskID)
	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.logger.Warn("Cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
