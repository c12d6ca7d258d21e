package agent

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/time/rate"
)

// Generation rate limiter defaults, shared across both routing modes.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// LLMGenerator implements Generator on top of a langchaingo chat model.
type LLMGenerator struct {
	model   llms.Model
	limiter *rate.Limiter
}

// NewLLMGenerator wraps a chat model as an answer generator.
func NewLLMGenerator(model llms.Model) *LLMGenerator {
	return &LLMGenerator{
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}
}

// Generate produces the answer text for one prompt.
func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	answer, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return answer, nil
}

var _ Generator = (*LLMGenerator)(nil)
