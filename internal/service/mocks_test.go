package service

import (
	"context"
	"time"

	"flash-me/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizGenerationService ---
type MockQuizGenerationService struct {
	mock.Mock
}

func (m *MockQuizGenerationService) GenerateQuiz(ctx context.Context, text string) ([]domain.QuestionDraft, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuestionDraft), args.Error(1)
}

// --- MockTaskRepository ---

// MockTaskRepository records the status of the task at every SaveTask call,
// since the task pointer keeps changing after the call returns.
type MockTaskRepository struct {
	mock.Mock
	SavedStatuses []domain.TaskStatus
}

func (m *MockTaskRepository) SaveTask(ctx context.Context, task *domain.QuizGenerationTask) error {
	if task != nil {
		m.SavedStatuses = append(m.SavedStatuses, task.Status())
	}
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.QuizGenerationTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizGenerationTask), args.Error(1)
}

func (m *MockTaskRepository) FindTasksByUserID(ctx context.Context, userID string, page domain.Pagination) ([]domain.TaskSummary, int, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TaskSummary), args.Int(1), args.Error(2)
}

func (m *MockTaskRepository) FindTaskByQuestionID(ctx context.Context, questionID string) (*domain.QuizGenerationTask, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizGenerationTask), args.Error(1)
}

func (m *MockTaskRepository) FindQuestionsByUserID(ctx context.Context, userID string, limit int) ([]domain.TaskQuestion, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaskQuestion), args.Error(1)
}

// --- MockUserAnswerStore ---
type MockUserAnswerStore struct {
	mock.Mock
}

func (m *MockUserAnswerStore) SaveUserAnswer(ctx context.Context, answer *domain.UserAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	_ domain.QuizGenerationService        = (*MockQuizGenerationService)(nil)
	_ domain.QuizGenerationTaskRepository = (*MockTaskRepository)(nil)
	_ domain.UserAnswerStore              = (*MockUserAnswerStore)(nil)
	_ domain.Cache                        = (*MockCache)(nil)
)
