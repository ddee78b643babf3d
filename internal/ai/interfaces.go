package ai

import (
	"context"

	"careercompass/internal/types"
)

// Provider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type Provider interface {
	// Complete runs a single prompt through the model with no tools.
	Complete(ctx context.Context, operation, prompt string) (types.ModelResponse, *TokenUsage, error)
	// RunAgent runs a prompt through the bounded tool-using loop.
	RunAgent(ctx context.Context, operation, prompt string) (types.ModelResponse, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// WebSearcher is the tool surface exposed to the agent loop.
type WebSearcher interface {
	WebSearch(ctx context.Context, query string) (string, error)
}
