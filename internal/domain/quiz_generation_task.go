package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"flash-me/internal/util"
)

// TaskStatus is the lifecycle state of a QuizGenerationTask.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusFailed     TaskStatus = "FAILED"
)

const (
	// MaxTextContentLength bounds the source text of a task, in characters.
	MaxTextContentLength = 50000
	maxTitleLength       = 100
)

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Answer is one option of a Question.
type Answer struct {
	id        string
	content   string
	isCorrect bool
}

// NewAnswer creates an Answer. An empty id is replaced by a fresh ULID.
func NewAnswer(id, content string, isCorrect bool) (*Answer, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewValidationError("answer.content", "content is required")
	}
	if id == "" {
		id = util.NewULID()
	}
	return &Answer{id: id, content: content, isCorrect: isCorrect}, nil
}

func (a *Answer) ID() string      { return a.id }
func (a *Answer) Content() string { return a.content }
func (a *Answer) IsCorrect() bool { return a.isCorrect }

// Question is a multiple-choice question with answers in display order.
type Question struct {
	id      string
	content string
	answers []*Answer
}

// NewQuestion creates a Question. At least one answer must be present and at
// least one of them must be correct.
func NewQuestion(id, content string, answers []*Answer) (*Question, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewValidationError("question.content", "content is required")
	}
	if len(answers) == 0 {
		return nil, NewValidationError("question.answers", "at least one answer is required")
	}
	hasCorrect := false
	for i, a := range answers {
		if a == nil {
			return nil, NewValidationError("question.answers", fmt.Sprintf("answer %d is nil", i))
		}
		if a.isCorrect {
			hasCorrect = true
		}
	}
	if !hasCorrect {
		return nil, NewValidationError("question.answers", "at least one answer must be correct")
	}
	if id == "" {
		id = util.NewULID()
	}
	return &Question{
		id:      id,
		content: content,
		answers: append([]*Answer(nil), answers...),
	}, nil
}

func (q *Question) ID() string      { return q.id }
func (q *Question) Content() string { return q.content }

// Answers returns a copy of the answers in display order.
func (q *Question) Answers() []*Answer {
	return append([]*Answer(nil), q.answers...)
}

// Answer looks up one of the question's answers by id.
func (q *Question) Answer(answerID string) (*Answer, bool) {
	for _, a := range q.answers {
		if a.id == answerID {
			return a, true
		}
	}
	return nil, false
}

// CorrectAnswerIDs returns the ids of the correct answers in display order.
func (q *Question) CorrectAnswerIDs() []string {
	var ids []string
	for _, a := range q.answers {
		if a.isCorrect {
			ids = append(ids, a.id)
		}
	}
	return ids
}

// QuizGenerationTask tracks one quiz generation request and owns the questions
// produced for it.
type QuizGenerationTask struct {
	id          string
	textContent string
	status      TaskStatus
	questions   []*Question
	title       string
	userID      string
	createdAt   time.Time
	updatedAt   time.Time
	generatedAt *time.Time
}

// NewQuizGenerationTask creates a PENDING task for textContent. userID is optional.
func NewQuizGenerationTask(textContent, userID string) (*QuizGenerationTask, error) {
	if err := validateTextContent(textContent); err != nil {
		return nil, err
	}
	now := time.Now()
	return &QuizGenerationTask{
		id:          util.NewULID(),
		textContent: textContent,
		status:      TaskStatusPending,
		title:       deriveTitle(textContent),
		userID:      userID,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func validateTextContent(textContent string) error {
	if strings.TrimSpace(textContent) == "" {
		return NewValidationError("textContent", "text content is required")
	}
	if utf8.RuneCountInString(textContent) > MaxTextContentLength {
		return NewValidationError("textContent", fmt.Sprintf("text content must not exceed %d characters", MaxTextContentLength))
	}
	return nil
}

// deriveTitle takes the first non-blank line of the text, cut to maxTitleLength characters.
func deriveTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxTitleLength {
			runes := []rune(line)
			line = strings.TrimSpace(string(runes[:maxTitleLength]))
		}
		return line
	}
	return ""
}

func (t *QuizGenerationTask) ID() string           { return t.id }
func (t *QuizGenerationTask) TextContent() string  { return t.textContent }
func (t *QuizGenerationTask) Status() TaskStatus   { return t.status }
func (t *QuizGenerationTask) Title() string        { return t.title }
func (t *QuizGenerationTask) UserID() string       { return t.userID }
func (t *QuizGenerationTask) CreatedAt() time.Time { return t.createdAt }
func (t *QuizGenerationTask) UpdatedAt() time.Time { return t.updatedAt }

// GeneratedAt is nil until the task reaches a terminal state.
func (t *QuizGenerationTask) GeneratedAt() *time.Time {
	if t.generatedAt == nil {
		return nil
	}
	g := *t.generatedAt
	return &g
}

// Questions returns a copy of the questions in display order.
func (t *QuizGenerationTask) Questions() []*Question {
	return append([]*Question(nil), t.questions...)
}

// Question looks up one of the task's questions by id.
func (t *QuizGenerationTask) Question(questionID string) (*Question, bool) {
	for _, q := range t.questions {
		if q.id == questionID {
			return q, true
		}
	}
	return nil, false
}

// AddQuestion appends q to a COMPLETED task.
func (t *QuizGenerationTask) AddQuestion(q *Question) error {
	if t.status != TaskStatusCompleted {
		return fmt.Errorf("%w: task is %s", ErrTaskNotCompleted, t.status)
	}
	if q == nil {
		return NewValidationError("question", "question is required")
	}
	if _, exists := t.Question(q.id); exists {
		return NewValidationError("question.id", fmt.Sprintf("question %s already belongs to the task", q.id))
	}
	t.questions = append(t.questions, q)
	t.updatedAt = time.Now()
	return nil
}

// MarkInProgress moves a PENDING task to IN_PROGRESS.
func (t *QuizGenerationTask) MarkInProgress() error {
	if t.status != TaskStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.status, TaskStatusInProgress)
	}
	t.status = TaskStatusInProgress
	t.updatedAt = time.Now()
	return nil
}

// MarkCompleted attaches the generated questions and moves the task to COMPLETED.
func (t *QuizGenerationTask) MarkCompleted(questions []*Question) error {
	if t.status.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.status, TaskStatusCompleted)
	}
	if len(questions) == 0 {
		return NewValidationError("questions", "a completed task requires at least one question")
	}
	for i, q := range questions {
		if q == nil {
			return NewValidationError("questions", fmt.Sprintf("question %d is nil", i))
		}
	}
	now := time.Now()
	t.questions = append([]*Question(nil), questions...)
	t.status = TaskStatusCompleted
	t.generatedAt = &now
	t.updatedAt = now
	return nil
}

// MarkFailed drops any questions and moves the task to FAILED.
func (t *QuizGenerationTask) MarkFailed() error {
	if t.status.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.status, TaskStatusFailed)
	}
	now := time.Now()
	t.questions = nil
	t.status = TaskStatusFailed
	t.generatedAt = &now
	t.updatedAt = now
	return nil
}

// AnswerSnapshot is the serializable form of an Answer.
type AnswerSnapshot struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionSnapshot is the serializable form of a Question.
type QuestionSnapshot struct {
	ID      string           `json:"id"`
	Content string           `json:"content"`
	Answers []AnswerSnapshot `json:"answers"`
}

// TaskSnapshot is the serializable form of a QuizGenerationTask, used by
// storage and cache adapters.
type TaskSnapshot struct {
	ID          string             `json:"id"`
	TextContent string             `json:"textContent"`
	Status      TaskStatus         `json:"status"`
	Title       string             `json:"title,omitempty"`
	UserID      string             `json:"userId,omitempty"`
	Questions   []QuestionSnapshot `json:"questions"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	GeneratedAt *time.Time         `json:"generatedAt,omitempty"`
}

// Snapshot copies the task into its serializable form.
func (t *QuizGenerationTask) Snapshot() TaskSnapshot {
	s := TaskSnapshot{
		ID:          t.id,
		TextContent: t.textContent,
		Status:      t.status,
		Title:       t.title,
		UserID:      t.userID,
		Questions:   make([]QuestionSnapshot, 0, len(t.questions)),
		CreatedAt:   t.createdAt,
		UpdatedAt:   t.updatedAt,
		GeneratedAt: t.GeneratedAt(),
	}
	for _, q := range t.questions {
		s.Questions = append(s.Questions, q.Snapshot())
	}
	return s
}

// Snapshot copies the question into its serializable form.
func (q *Question) Snapshot() QuestionSnapshot {
	qs := QuestionSnapshot{ID: q.id, Content: q.content, Answers: make([]AnswerSnapshot, 0, len(q.answers))}
	for _, a := range q.answers {
		qs.Answers = append(qs.Answers, AnswerSnapshot{ID: a.id, Content: a.content, IsCorrect: a.isCorrect})
	}
	return qs
}

// TaskQuestion is a question listed together with the task that owns it.
type TaskQuestion struct {
	TaskID   string
	Question *Question
}

// MarshalJSON implements the json.Marshaler interface
func (tq TaskQuestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TaskID string `json:"taskId"`
		QuestionSnapshot
	}{TaskID: tq.TaskID, QuestionSnapshot: tq.Question.Snapshot()})
}

// RehydrateQuizGenerationTask rebuilds a task from a snapshot, re-checking
// every entity invariant.
func RehydrateQuizGenerationTask(s TaskSnapshot) (*QuizGenerationTask, error) {
	if s.ID == "" {
		return nil, NewValidationError("id", "id is required")
	}
	if err := validateTextContent(s.TextContent); err != nil {
		return nil, err
	}
	if !s.Status.IsValid() {
		return nil, NewValidationError("status", fmt.Sprintf("unknown status %q", s.Status))
	}

	questions := make([]*Question, 0, len(s.Questions))
	for _, qs := range s.Questions {
		answers := make([]*Answer, 0, len(qs.Answers))
		for _, as := range qs.Answers {
			a, err := NewAnswer(as.ID, as.Content, as.IsCorrect)
			if err != nil {
				return nil, err
			}
			answers = append(answers, a)
		}
		q, err := NewQuestion(qs.ID, qs.Content, answers)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	switch s.Status {
	case TaskStatusCompleted:
		if len(questions) == 0 {
			return nil, NewValidationError("questions", "a completed task requires at least one question")
		}
	default:
		if len(questions) > 0 {
			return nil, NewValidationError("questions", fmt.Sprintf("a %s task cannot hold questions", s.Status))
		}
		questions = nil
	}

	t := &QuizGenerationTask{
		id:          s.ID,
		textContent: s.TextContent,
		status:      s.Status,
		questions:   questions,
		title:       s.Title,
		userID:      s.UserID,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}
	if s.GeneratedAt != nil {
		g := *s.GeneratedAt
		t.generatedAt = &g
	}
	return t, nil
}

// MarshalJSON implements the json.Marshaler interface
func (t *QuizGenerationTask) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Snapshot())
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (t *QuizGenerationTask) UnmarshalJSON(data []byte) error {
	var s TaskSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	rebuilt, err := RehydrateQuizGenerationTask(s)
	if err != nil {
		return err
	}
	*t = *rebuilt
	return nil
}
