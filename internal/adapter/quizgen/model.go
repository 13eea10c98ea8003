package quizgen

import (
	"fmt"
	"net/http"

	"flash-me/internal/config"

	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModel builds the langchaingo client for the configured provider.
func NewModel(cfg config.LLMConfig) (Model, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("LLM model name cannot be empty")
	}

	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key cannot be empty")
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return llm, nil

	case "ollama":
		opts := []ollama.Option{
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		}
		if cfg.ServerURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return llm, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// OptionsFromConfig maps the LLM section of the configuration onto generator options.
func OptionsFromConfig(cfg config.LLMConfig) Options {
	return Options{
		NumQuestions:       cfg.NumQuestions,
		AnswersPerQuestion: cfg.AnswersPerQuestion,
		Temperature:        cfg.Temperature,
		Timeout:            cfg.Timeout,
		JSONMode:           cfg.JSONMode,
	}
}
