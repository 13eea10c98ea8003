package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"flash-me/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const (
	DefaultNumQuestions       = 10
	DefaultAnswersPerQuestion = 4
	DefaultTemperature        = 0.5

	systemPrompt = "You are a specialized quiz generation assistant. Create concise, accurate quiz questions based on provided text."
)

// ErrInvalidLLMResponse is returned when the model reply holds no parsable quiz JSON.
var ErrInvalidLLMResponse = errors.New("invalid LLM response")

// Model is the part of a langchaingo model the generator needs. Both
// *openai.LLM and *ollama.LLM satisfy it.
type Model interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Options tunes a LLMQuizGenerator. Non-positive counts fall back to the
// defaults. Temperature 0 is a valid setting; only a negative one is replaced.
type Options struct {
	NumQuestions       int
	AnswersPerQuestion int
	Temperature        float64
	Timeout            time.Duration
	JSONMode           bool
}

// LLMQuizGenerator implements domain.QuizGenerationService on a langchaingo model.
type LLMQuizGenerator struct {
	model  Model
	opts   Options
	logger *zap.Logger
}

// NewLLMQuizGenerator creates a new instance of LLMQuizGenerator.
func NewLLMQuizGenerator(model Model, opts Options, logger *zap.Logger) (*LLMQuizGenerator, error) {
	if model == nil {
		return nil, fmt.Errorf("LLM model cannot be nil")
	}
	if opts.NumQuestions <= 0 {
		opts.NumQuestions = DefaultNumQuestions
	}
	if opts.AnswersPerQuestion <= 0 {
		opts.AnswersPerQuestion = DefaultAnswersPerQuestion
	}
	if opts.Temperature < 0 {
		opts.Temperature = DefaultTemperature
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMQuizGenerator{model: model, opts: opts, logger: logger}, nil
}

// GenerateQuiz asks the model for questions about text and returns the drafts
// exactly as the model produced them.
func (g *LLMQuizGenerator) GenerateQuiz(ctx context.Context, text string) ([]domain.QuestionDraft, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, g.buildPrompt(text)),
	}
	callOpts := []llms.CallOption{llms.WithTemperature(g.opts.Temperature)}
	if g.opts.JSONMode {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	g.logger.Debug("Requesting quiz generation from LLM",
		zap.Int("num_questions", g.opts.NumQuestions),
		zap.Int("text_length", utf8.RuneCountInString(text)))

	resp, err := g.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			g.logger.Error("LLM request timed out", zap.Error(err))
			return nil, fmt.Errorf("LLM request timed out: %w", err)
		}
		g.logger.Error("Failed to get response from LLM", zap.Error(err))
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrInvalidLLMResponse)
	}

	raw := resp.Choices[0].Content
	g.logger.Debug("Raw LLM response received", zap.String("raw_response", raw))

	drafts, err := parseDrafts(raw)
	if err != nil {
		g.logger.Error("Failed to parse quiz JSON from LLM response", zap.Error(err), zap.String("raw_response", raw))
		return nil, err
	}

	g.logger.Info("Successfully parsed LLM response", zap.Int("num_questions_generated", len(drafts)))
	return drafts, nil
}

func (g *LLMQuizGenerator) buildPrompt(text string) string {
	return fmt.Sprintf(`Generate %d quiz questions based on this text: %q

Each question must have exactly %d answers and at least one of them must be correct.
Respond with ONLY a JSON object in the following format:
{
  "data": [
    {
      "question": "question text",
      "answers": [
        {"text": "answer text", "isCorrect": true},
        {"text": "answer text", "isCorrect": false}
      ]
    }
  ]
}`, g.opts.NumQuestions, text, g.opts.AnswersPerQuestion)
}

type quizPayload struct {
	Data      []domain.QuestionDraft `json:"data"`
	Questions []domain.QuestionDraft `json:"questions"`
}

// parseDrafts accepts {"data":[...]}, {"questions":[...]} or a bare array,
// optionally surrounded by prose or a <think> block.
func parseDrafts(raw string) ([]domain.QuestionDraft, error) {
	cleaned := stripThinkBlock(strings.TrimSpace(raw))

	objStart := strings.Index(cleaned, "{")
	arrStart := strings.Index(cleaned, "[")

	if arrStart != -1 && (objStart == -1 || arrStart < objStart) {
		arrEnd := strings.LastIndex(cleaned, "]")
		if arrEnd <= arrStart {
			return nil, fmt.Errorf("%w: unterminated JSON array", ErrInvalidLLMResponse)
		}
		var drafts []domain.QuestionDraft
		if err := json.Unmarshal([]byte(cleaned[arrStart:arrEnd+1]), &drafts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
		}
		return nonNil(drafts), nil
	}

	objEnd := strings.LastIndex(cleaned, "}")
	if objStart == -1 || objEnd <= objStart {
		return nil, fmt.Errorf("%w: no JSON object found", ErrInvalidLLMResponse)
	}
	var payload quizPayload
	if err := json.Unmarshal([]byte(cleaned[objStart:objEnd+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
	}
	if payload.Data != nil {
		return payload.Data, nil
	}
	return nonNil(payload.Questions), nil
}

func stripThinkBlock(s string) string {
	if thinkStart := strings.Index(s, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(s, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			s = s[:thinkStart] + s[thinkEnd+len("</think>"):]
			s = strings.TrimSpace(s)
		}
	}
	return s
}

func nonNil(drafts []domain.QuestionDraft) []domain.QuestionDraft {
	if drafts == nil {
		return []domain.QuestionDraft{}
	}
	return drafts
}

// Static assertion to ensure LLMQuizGenerator implements QuizGenerationService
var _ domain.QuizGenerationService = (*LLMQuizGenerator)(nil)
