package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"flash-me/internal/domain"
	"flash-me/internal/repository/models"
	"flash-me/internal/util"

	"github.com/jmoiron/sqlx"
)

// Queries use ? placeholders and are rebound per driver. Column aliases are
// quoted so Oracle reports them in lower case like PostgreSQL does.
const (
	insertTaskQuery = `INSERT INTO quiz_generation_tasks (
		id, user_id, text_content, status, title, created_at, updated_at, generated_at
	) VALUES (
		:id, :user_id, :text_content, :status, :title, :created_at, :updated_at, :generated_at
	)`

	insertQuestionQuery = `INSERT INTO questions (id, task_id, content, sort_order)
		VALUES (:id, :task_id, :content, :sort_order)`

	insertAnswerQuery = `INSERT INTO answers (id, question_id, content, is_correct, sort_order)
		VALUES (:id, :question_id, :content, :is_correct, :sort_order)`

	deleteAnswersByTaskQuery   = `DELETE FROM answers WHERE question_id IN (SELECT id FROM questions WHERE task_id = ?)`
	deleteQuestionsByTaskQuery = `DELETE FROM questions WHERE task_id = ?`
	deleteTaskQuery            = `DELETE FROM quiz_generation_tasks WHERE id = ?`

	selectTaskByIDQuery = `SELECT
		id "id",
		user_id "user_id",
		text_content "text_content",
		status "status",
		title "title",
		created_at "created_at",
		updated_at "updated_at",
		generated_at "generated_at"
	FROM quiz_generation_tasks
	WHERE id = ?`

	selectQuestionsByTaskQuery = `SELECT
		id "id",
		task_id "task_id",
		content "content",
		sort_order "sort_order"
	FROM questions
	WHERE task_id = ?
	ORDER BY sort_order`

	selectAnswersByTaskQuery = `SELECT
		a.id "id",
		a.question_id "question_id",
		a.content "content",
		a.is_correct "is_correct",
		a.sort_order "sort_order"
	FROM answers a
	JOIN questions q ON q.id = a.question_id
	WHERE q.task_id = ?
	ORDER BY q.sort_order, a.sort_order`

	countTasksByUserQuery = `SELECT COUNT(*) FROM quiz_generation_tasks WHERE user_id = ?`

	selectTaskSummariesByUserQuery = `SELECT
		t.id "id",
		t.status "status",
		t.title "title",
		t.created_at "created_at",
		t.updated_at "updated_at",
		(SELECT COUNT(*) FROM questions q WHERE q.task_id = t.id) "questions_count"
	FROM quiz_generation_tasks t
	WHERE t.user_id = ?
	ORDER BY t.created_at DESC, t.id DESC
	OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`
)

// QuizGenerationTaskDatabaseAdapter implements domain.QuizGenerationTaskRepository using sqlx.
type QuizGenerationTaskDatabaseAdapter struct {
	db        DBTX
	txManager domain.TransactionManager
}

// NewQuizGenerationTaskDatabaseAdapter creates a new repository. Saves run
// through txManager so the task graph is written as one unit.
func NewQuizGenerationTaskDatabaseAdapter(db *sqlx.DB, txManager domain.TransactionManager) domain.QuizGenerationTaskRepository {
	return &QuizGenerationTaskDatabaseAdapter{db: db, txManager: txManager}
}

// SaveTask replaces any stored copy of the task with its current state,
// including every question and answer.
func (a *QuizGenerationTaskDatabaseAdapter) SaveTask(ctx context.Context, task *domain.QuizGenerationTask) error {
	if task == nil {
		return fmt.Errorf("cannot save nil quiz generation task")
	}
	taskModel, questionModels, answerModels := toModelTaskGraph(task)

	err := a.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, a.db)

		for _, q := range []string{deleteAnswersByTaskQuery, deleteQuestionsByTaskQuery, deleteTaskQuery} {
			if _, err := exec.ExecContext(txCtx, exec.Rebind(q), task.ID()); err != nil {
				return fmt.Errorf("failed to clear previous task state: %w", err)
			}
		}

		if _, err := exec.NamedExecContext(txCtx, insertTaskQuery, taskModel); err != nil {
			return fmt.Errorf("failed to insert quiz generation task: %w", err)
		}
		for i := range questionModels {
			if _, err := exec.NamedExecContext(txCtx, insertQuestionQuery, &questionModels[i]); err != nil {
				return fmt.Errorf("failed to insert question %s: %w", questionModels[i].ID, err)
			}
		}
		for i := range answerModels {
			if _, err := exec.NamedExecContext(txCtx, insertAnswerQuery, &answerModels[i]); err != nil {
				return fmt.Errorf("failed to insert answer %s: %w", answerModels[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save quiz generation task %s: %w", task.ID(), err)
	}
	return nil
}

// FindTaskByID implements domain.QuizGenerationTaskReader
func (a *QuizGenerationTaskDatabaseAdapter) FindTaskByID(ctx context.Context, taskID string) (*domain.QuizGenerationTask, error) {
	exec := GetExecutor(ctx, a.db)

	var taskModel models.QuizGenerationTask
	if err := exec.GetContext(ctx, &taskModel, exec.Rebind(selectTaskByIDQuery), taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz generation task %s: %w", taskID, err)
	}

	var questionModels []models.Question
	if err := exec.SelectContext(ctx, &questionModels, exec.Rebind(selectQuestionsByTaskQuery), taskID); err != nil {
		return nil, fmt.Errorf("failed to get questions for task %s: %w", taskID, err)
	}

	var answerModels []models.Answer
	if len(questionModels) > 0 {
		if err := exec.SelectContext(ctx, &answerModels, exec.Rebind(selectAnswersByTaskQuery), taskID); err != nil {
			return nil, fmt.Errorf("failed to get answers for task %s: %w", taskID, err)
		}
	}

	task, err := toDomainTask(&taskModel, questionModels, answerModels)
	if err != nil {
		return nil, fmt.Errorf("stored quiz generation task %s is invalid: %w", taskID, err)
	}
	return task, nil
}

// FindTasksByUserID implements domain.QuizGenerationTaskReader
func (a *QuizGenerationTaskDatabaseAdapter) FindTasksByUserID(ctx context.Context, userID string, page domain.Pagination) ([]domain.TaskSummary, int, error) {
	exec := GetExecutor(ctx, a.db)

	var total int
	if err := exec.GetContext(ctx, &total, exec.Rebind(countTasksByUserQuery), userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks for user %s: %w", userID, err)
	}
	if total == 0 {
		return []domain.TaskSummary{}, 0, nil
	}

	var rows []models.TaskSummary
	query := exec.Rebind(selectTaskSummariesByUserQuery)
	if err := exec.SelectContext(ctx, &rows, query, userID, page.Offset(), page.Limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks for user %s: %w", userID, err)
	}

	summaries := make([]domain.TaskSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.TaskSummary{
			ID:             row.ID,
			Status:         domain.TaskStatus(row.Status),
			Title:          row.Title.String,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
			QuestionsCount: row.QuestionsCount,
		})
	}
	return summaries, total, nil
}

// FindTaskByQuestionID implements domain.QuizGenerationTaskReader
func (a *QuizGenerationTaskDatabaseAdapter) FindTaskByQuestionID(ctx context.Context, questionID string) (*domain.QuizGenerationTask, error) {
	exec := GetExecutor(ctx, a.db)

	var taskID string
	if err := exec.GetContext(ctx, &taskID, exec.Rebind(selectTaskIDByQuestionQuery), questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task for question %s: %w", questionID, err)
	}
	return a.FindTaskByID(ctx, taskID)
}

// FindQuestionsByUserID implements domain.QuizGenerationTaskReader
func (a *QuizGenerationTaskDatabaseAdapter) FindQuestionsByUserID(ctx context.Context, userID string, limit int) ([]domain.TaskQuestion, error) {
	exec := GetExecutor(ctx, a.db)

	var questionModels []models.Question
	if err := exec.SelectContext(ctx, &questionModels, exec.Rebind(selectQuestionsByUserQuery), userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list questions for user %s: %w", userID, err)
	}
	if len(questionModels) == 0 {
		return []domain.TaskQuestion{}, nil
	}

	questionIDs := make([]string, 0, len(questionModels))
	for _, qm := range questionModels {
		questionIDs = append(questionIDs, qm.ID)
	}
	query, args, err := sqlx.In(selectAnswersByQuestionsQuery, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build answers query: %w", err)
	}
	var answerModels []models.Answer
	if err := exec.SelectContext(ctx, &answerModels, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get answers for user %s: %w", userID, err)
	}

	answersByQuestion := make(map[string][]*domain.Answer, len(questionModels))
	for _, am := range answerModels {
		answer, err := domain.NewAnswer(am.ID, am.Content, am.IsCorrect != 0)
		if err != nil {
			return nil, fmt.Errorf("stored answer %s is invalid: %w", am.ID, err)
		}
		answersByQuestion[am.QuestionID] = append(answersByQuestion[am.QuestionID], answer)
	}

	result := make([]domain.TaskQuestion, 0, len(questionModels))
	for _, qm := range questionModels {
		question, err := domain.NewQuestion(qm.ID, qm.Content, answersByQuestion[qm.ID])
		if err != nil {
			return nil, fmt.Errorf("stored question %s is invalid: %w", qm.ID, err)
		}
		result = append(result, domain.TaskQuestion{TaskID: qm.TaskID, Question: question})
	}
	return result, nil
}

func toModelTaskGraph(task *domain.QuizGenerationTask) (*models.QuizGenerationTask, []models.Question, []models.Answer) {
	taskModel := &models.QuizGenerationTask{
		ID:          task.ID(),
		UserID:      util.StringToNullString(task.UserID()),
		TextContent: task.TextContent(),
		Status:      string(task.Status()),
		Title:       util.StringToNullString(task.Title()),
		CreatedAt:   task.CreatedAt(),
		UpdatedAt:   task.UpdatedAt(),
		GeneratedAt: util.TimePtrToNullTime(task.GeneratedAt()),
	}

	var questionModels []models.Question
	var answerModels []models.Answer
	for qi, q := range task.Questions() {
		questionModels = append(questionModels, models.Question{
			ID:        q.ID(),
			TaskID:    task.ID(),
			Content:   q.Content(),
			SortOrder: qi,
		})
		for ai, ans := range q.Answers() {
			answerModels = append(answerModels, models.Answer{
				ID:         ans.ID(),
				QuestionID: q.ID(),
				Content:    ans.Content(),
				IsCorrect:  util.BoolToInt(ans.IsCorrect()),
				SortOrder:  ai,
			})
		}
	}
	return taskModel, questionModels, answerModels
}

// toDomainTask expects questionModels and answerModels already in display order.
func toDomainTask(taskModel *models.QuizGenerationTask, questionModels []models.Question, answerModels []models.Answer) (*domain.QuizGenerationTask, error) {
	answersByQuestion := make(map[string][]domain.AnswerSnapshot, len(questionModels))
	for _, am := range answerModels {
		answersByQuestion[am.QuestionID] = append(answersByQuestion[am.QuestionID], domain.AnswerSnapshot{
			ID:        am.ID,
			Content:   am.Content,
			IsCorrect: am.IsCorrect != 0,
		})
	}

	questions := make([]domain.QuestionSnapshot, 0, len(questionModels))
	for _, qm := range questionModels {
		questions = append(questions, domain.QuestionSnapshot{
			ID:      qm.ID,
			Content: qm.Content,
			Answers: answersByQuestion[qm.ID],
		})
	}

	return domain.RehydrateQuizGenerationTask(domain.TaskSnapshot{
		ID:          taskModel.ID,
		TextContent: taskModel.TextContent,
		Status:      domain.TaskStatus(taskModel.Status),
		Title:       taskModel.Title.String,
		UserID:      taskModel.UserID.String,
		Questions:   questions,
		CreatedAt:   taskModel.CreatedAt,
		UpdatedAt:   taskModel.UpdatedAt,
		GeneratedAt: util.NullTimeToTimePtr(taskModel.GeneratedAt),
	})
}

// Static assertion
var _ domain.QuizGenerationTaskRepository = (*QuizGenerationTaskDatabaseAdapter)(nil)
