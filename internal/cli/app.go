package cli

import (
	"context"
	"fmt"

	"flash-me/internal/adapter"
	"flash-me/internal/adapter/quizgen"
	"flash-me/internal/cache"
	"flash-me/internal/config"
	"flash-me/internal/database"
	"flash-me/internal/domain"
	"flash-me/internal/logger"
	"flash-me/internal/repository"
	"flash-me/internal/service"
	"flash-me/internal/validation"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type taskCreator interface {
	Execute(ctx context.Context, input service.CreateQuizGenerationTaskInput) (*service.CreateQuizGenerationTaskOutput, error)
}

type taskQuerier interface {
	GetTaskByID(ctx context.Context, taskID, userID string) (*domain.QuizGenerationTask, error)
	FetchTasksByUserID(ctx context.Context, userID string, page, limit int) (*service.TaskPage, error)
	FetchQuestionsByUserID(ctx context.Context, userID string, limit int) ([]domain.TaskQuestion, error)
}

type questionAdder interface {
	Execute(ctx context.Context, input service.AddQuestionInput) (*service.AddQuestionOutput, error)
}

type answerSubmitter interface {
	Execute(ctx context.Context, input service.SubmitAnswerInput) (*service.SubmitAnswerOutput, error)
}

// app holds the wired components a command needs. Fields a command did not ask
// for stay nil.
type app struct {
	creator   taskCreator
	querier   taskQuerier
	adder     questionAdder
	submitter answerSubmitter
	migrate   func(ctx context.Context) error
	close     func()
}

type appOptions struct {
	withGenerator bool
	withCache     bool
}

type appLoader func(ctx context.Context, configPath string, opts appOptions) (*app, error)

// loadApp wires config, logger, database, cache and services.
func loadApp(ctx context.Context, configPath string, opts appOptions) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger := logger.Get()

	db, err := database.NewSQLXDB(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	closeAll := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		_ = db.Close()
		_ = logger.Sync()
	}

	validator := validation.NewValidator()
	txManager := repository.NewTransactionManagerAdapter(db, appLogger)
	taskRepository := repository.NewQuizGenerationTaskDatabaseAdapter(db, txManager)

	a := &app{
		migrate: func(ctx context.Context) error {
			return database.RunMigrations(ctx, db, cfg.DB.Driver, appLogger)
		},
		close: closeAll,
	}

	if opts.withGenerator {
		generator, err := newGenerator(cfg.LLM, appLogger)
		if err != nil {
			closeAll()
			return nil, err
		}
		a.creator = service.NewCreateQuizGenerationTask(generator, taskRepository, validator, cfg.Generation.MaxTextLength, appLogger)
	}

	var taskCache domain.Cache
	if opts.withCache && cfg.Cache.Enabled && cfg.Redis.Address != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			// Reads still work from the database alone.
			appLogger.Warn("Redis unavailable, task cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
			taskCache = adapter.NewRedisCacheAdapter(redisClient)
		}
	}
	a.querier = service.NewTaskQueryService(taskRepository, taskCache, cfg.Cache.TaskTTL, validator, appLogger)
	a.adder = service.NewAddQuestion(taskRepository, taskCache, validator, appLogger)
	a.submitter = service.NewSubmitAnswer(taskRepository, repository.NewUserAnswerDatabaseAdapter(db), validator, appLogger)

	return a, nil
}

func newGenerator(llmCfg config.LLMConfig, appLogger *zap.Logger) (domain.QuizGenerationService, error) {
	model, err := quizgen.NewModel(llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	appLogger.Info("LLM client initialized",
		zap.String("provider", llmCfg.Provider),
		zap.String("model", llmCfg.Model))
	generator, err := quizgen.NewLLMQuizGenerator(model, quizgen.OptionsFromConfig(llmCfg), appLogger)
	if err != nil {
		return nil, err
	}
	return generator, nil
}
