// Package quizgen provides the language-model boundary of the quiz
// generation pipeline.
package quizgen

import (
	"context"
	"fmt"

	"quiztube/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// GeminiCompleter implements pipeline.PromptCompleter on top of the
// Gemini API via langchaingo.
type GeminiCompleter struct {
	llm   llms.Model
	model string
}

// NewGeminiCompleter builds a completer bound to the given model name.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiCompleter{llm: llm, model: model}, nil
}

// NewWithModel wraps an existing llms.Model; used by tests.
func NewWithModel(llm llms.Model, model string) *GeminiCompleter {
	return &GeminiCompleter{llm: llm, model: model}
}

// Complete sends the prompt and returns the raw completion text.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()
	l.Debug("calling Gemini", zap.String("model", g.model), zap.Int("prompt_chars", len(prompt)))

	completion, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	l.Debug("Gemini responded", zap.Int("completion_chars", len(completion)))
	return completion, nil
}
