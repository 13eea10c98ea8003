package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"flash-me/internal/cache"
	"flash-me/internal/domain"
	"flash-me/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TaskPage is one page of a user's task listing.
type TaskPage struct {
	Items []domain.TaskSummary  `json:"items"`
	Meta  domain.PaginationMeta `json:"meta"`
}

// TaskQueryService serves the read paths over stored quiz generation tasks.
type TaskQueryService struct {
	reader    domain.QuizGenerationTaskReader
	cache     domain.Cache
	cacheTTL  time.Duration
	validator *validation.Validator
	logger    *zap.Logger
	sfGroup   singleflight.Group
}

// NewTaskQueryService creates the query service. cache may be nil, in which
// case every read goes to storage.
func NewTaskQueryService(
	reader domain.QuizGenerationTaskReader,
	cache domain.Cache,
	cacheTTL time.Duration,
	validator *validation.Validator,
	logger *zap.Logger,
) *TaskQueryService {
	if validator == nil {
		validator = validation.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskQueryService{
		reader:    reader,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validator,
		logger:    logger,
	}
}

// GetTaskByID returns the task with taskID. When userID is set, tasks owned by
// someone else are reported as not found.
func (s *TaskQueryService) GetTaskByID(ctx context.Context, taskID, userID string) (*domain.QuizGenerationTask, error) {
	taskID = strings.TrimSpace(taskID)
	userID = strings.TrimSpace(userID)
	if err := s.validator.ValidateTaskID(taskID); err != nil {
		return nil, err
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || (userID != "" && task.UserID() != userID) {
		return nil, domain.NewTaskNotFoundError(taskID)
	}
	return task, nil
}

func (s *TaskQueryService) loadTask(ctx context.Context, taskID string) (*domain.QuizGenerationTask, error) {
	cacheKey := cache.TaskDetailKey(taskID)

	if task := s.getCachedTask(ctx, cacheKey); task != nil {
		return task, nil
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		task, err := s.reader.FindTaskByID(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if task != nil && task.Status().IsTerminal() {
			s.setCachedTask(ctx, cacheKey, task)
		}
		return task, nil
	})
	if err != nil {
		s.logger.Error("Failed to read quiz generation task", zap.String("task_id", taskID), zap.Error(err))
		return nil, domain.NewInternalError("failed to get quiz generation task", err)
	}

	task, ok := res.(*domain.QuizGenerationTask)
	if !ok {
		return nil, domain.NewInternalError("failed to get quiz generation task",
			fmt.Errorf("unexpected type from singleflight.Do: %T", res))
	}
	return task, nil
}

// getCachedTask returns nil on a miss or on any cache problem.
func (s *TaskQueryService) getCachedTask(ctx context.Context, key string) *domain.QuizGenerationTask {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var task domain.QuizGenerationTask
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		s.logger.Warn("Discarding undecodable cached task", zap.String("key", key), zap.Error(err))
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Cache delete failed", zap.String("key", key), zap.Error(delErr))
		}
		return nil
	}
	s.logger.Debug("Cache hit", zap.String("key", key))
	return &task
}

func (s *TaskQueryService) setCachedTask(ctx context.Context, key string, task *domain.QuizGenerationTask) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		s.logger.Warn("Failed to encode task for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// FetchTasksByUserID lists a user's tasks newest first. Zero page or limit
// select the defaults.
func (s *TaskQueryService) FetchTasksByUserID(ctx context.Context, userID string, page, limit int) (*TaskPage, error) {
	userID = strings.TrimSpace(userID)
	if page == 0 {
		page = domain.DefaultPage
	}
	if limit == 0 {
		limit = domain.DefaultLimit
	}
	if err := s.validator.ValidateListTasks(userID, page, limit); err != nil {
		return nil, err
	}

	p := domain.Pagination{Page: page, Limit: limit}
	items, total, err := s.reader.FindTasksByUserID(ctx, userID, p)
	if err != nil {
		s.logger.Error("Failed to list quiz generation tasks", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.NewInternalError("failed to list quiz generation tasks", err)
	}
	if items == nil {
		items = []domain.TaskSummary{}
	}
	return &TaskPage{Items: items, Meta: domain.NewPaginationMeta(p, total)}, nil
}

// FetchQuestionsByUserID returns up to limit of the user's questions, newest
// task first. A zero limit selects the default.
func (s *TaskQueryService) FetchQuestionsByUserID(ctx context.Context, userID string, limit int) ([]domain.TaskQuestion, error) {
	userID = strings.TrimSpace(userID)
	if limit == 0 {
		limit = domain.DefaultLimit
	}
	if err := s.validator.ValidateListQuestions(userID, limit); err != nil {
		return nil, err
	}

	questions, err := s.reader.FindQuestionsByUserID(ctx, userID, limit)
	if err != nil {
		s.logger.Error("Failed to list questions", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.NewInternalError("failed to list questions", err)
	}
	if questions == nil {
		questions = []domain.TaskQuestion{}
	}
	return questions, nil
}
