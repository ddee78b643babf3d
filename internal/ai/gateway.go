package ai

import (
	"context"
	"sync"

	"careercompass/internal/config"
	appErrors "careercompass/internal/errors"
)

// Gateway owns the shared AI provider. Initialization is lazy: the
// first request that needs the model pays the construction cost, and
// a failed attempt is retried on the next request instead of pinning
// the process in a broken state. All access is mutex guarded.
type Gateway struct {
	mu       sync.Mutex
	provider Provider

	cfg      *config.Config
	searcher WebSearcher
	logger   *appErrors.Logger

	// newProvider is swappable for tests
	newProvider func() (Provider, error)
}

// NewGateway creates a gateway around the given configuration. The
// searcher backs the agent's web_search tool; the provider and the
// tool are constructed together, so Provider refuses to build one
// without the credentials for both.
func NewGateway(cfg *config.Config, searcher WebSearcher, logger *appErrors.Logger) *Gateway {
	g := &Gateway{
		cfg:      cfg,
		searcher: searcher,
		logger:   logger,
	}
	g.newProvider = func() (Provider, error) {
		return NewGeminiProvider(&cfg.AI, searcher,
			cfg.Observability.HealthCheck.AIModelCheckTimeout, logger)
	}
	return g
}

// Provider returns the shared provider, constructing it on first use.
func (g *Gateway) Provider(ctx context.Context) (Provider, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.provider != nil {
		return g.provider, nil
	}

	// The provider and its search tool are built as a unit, so both
	// credentials are required before construction is attempted.
	if g.cfg.AI.APIKey == "" || g.cfg.Search.APIKey == "" {
		return nil, appErrors.NewConfigError(appErrors.ErrCodeMissingAPIKey,
			"Gemini and SerpAPI keys must both be configured", nil)
	}

	provider, err := g.newProvider()
	if err != nil {
		g.logger.LogError(err, "AI provider initialization failed")
		return nil, appErrors.NewAIError(appErrors.ErrCodeAgentInitFailed,
			"Failed to initialize AI provider", err)
	}

	g.logger.Info("AI provider initialized", "model", g.cfg.AI.Model)

	g.provider = provider
	return g.provider, nil
}

// Initialized reports whether the provider has been constructed.
func (g *Gateway) Initialized() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.provider != nil
}

// Stats returns gateway and circuit breaker statistics for the stats
// endpoint.
func (g *Gateway) Stats() map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()

	stats := map[string]any{
		"initialized":    g.provider != nil,
		"model":          g.cfg.AI.Model,
		"has_api_key":    g.cfg.AI.APIKey != "",
		"has_search_key": g.cfg.Search.APIKey != "",
	}

	if gemini, ok := g.provider.(*GeminiProvider); ok {
		stats["circuit_breakers"] = gemini.GetCircuitBreakerStats()
	}

	return stats
}

// Close releases the provider if one was built.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.provider == nil {
		return nil
	}
	err := g.provider.Close()
	g.provider = nil
	return err
}
