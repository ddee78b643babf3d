package cli

import (
	"context"

	"careercompass/internal/ai"
	"careercompass/internal/config"
	"careercompass/internal/errors"
	"careercompass/internal/search"
	"careercompass/internal/types"
)

// newSearchClient builds the shared SerpAPI client from config.
func newSearchClient(cfg *config.Config, logger *errors.Logger) *search.Client {
	return search.NewClient(search.Config{
		APIKey:  cfg.Search.APIKey,
		BaseURL: cfg.Search.BaseURL,
		Timeout: cfg.Search.Timeout,
		Gl:      cfg.Search.Gl,
		Hl:      cfg.Search.Hl,
	}, logger)
}

// runCompletion resolves the AI gateway and runs a single prompt
// through the model, logging token usage. CLI commands skip the agent
// path: the template operations are plain completions.
func runCompletion(ctx context.Context, cfg *config.Config, logger *errors.Logger, operation, prompt string) (types.ModelResponse, error) {
	gateway := ai.NewGateway(cfg, newSearchClient(cfg, logger), logger)
	defer func() {
		if err := gateway.Close(); err != nil {
			logger.Warn("Failed to close AI gateway", "error", err)
		}
	}()

	provider, err := gateway.Provider(ctx)
	if err != nil {
		return types.ModelResponse{}, err
	}

	response, tokenUsage, err := provider.Complete(ctx, operation, prompt)
	if err != nil {
		return types.ModelResponse{}, err
	}

	if tokenUsage != nil {
		logger.Info("AI token usage",
			"input_tokens", tokenUsage.InputTokens,
			"output_tokens", tokenUsage.OutputTokens,
			"total_tokens", tokenUsage.TotalTokens)
	}

	return response, nil
}
