// Package llm provides text generation and embeddings using langchaingo.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saiborg-ai/saiborg/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// generationTemperature keeps answers factual; the prompts forbid invented
// numbers and a low temperature backs that up.
const generationTemperature = 0.2

// Model wraps a langchaingo LLM for text generation.
type Model struct {
	llm       llms.Model
	modelName string
}

// NewModel creates an LLM model based on configuration.
func NewModel(ctx context.Context, cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderGoogleAI:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("Google API key required")
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GoogleAPIKey),
			googleai.WithDefaultModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create googleai model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
	}, nil
}

// Generate produces a completion for the prompt. Transient provider
// failures get exactly one retry; anything else fails the call with
// ErrGenerate.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	var response string

	start := time.Now()
	err := retryOnce(ctx, func() error {
		var genErr error
		response, genErr = llms.GenerateFromSinglePrompt(ctx, m.llm, prompt,
			llms.WithTemperature(generationTemperature))
		return genErr
	})
	duration := time.Since(start)

	if err != nil {
		slog.Warn("llm generation failed", "model", m.modelName,
			"prompt_len", len(prompt), "duration_ms", duration.Milliseconds(), "error", err)
		return "", fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	slog.Debug("llm generation complete", "model", m.modelName,
		"prompt_len", len(prompt), "reply_len", len(response),
		"duration_ms", duration.Milliseconds())
	return response, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}
