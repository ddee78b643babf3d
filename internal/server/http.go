package server

import (
	"time"

	"careercompass/internal/ai"
	"careercompass/internal/careers"
	"careercompass/internal/config"
	careerErrors "careercompass/internal/errors"
	"careercompass/internal/search"
	"careercompass/internal/types"
)

// ChatRequest represents the request body for the chat endpoint
type ChatRequest struct {
	Message string           `json:"message"`
	History []types.ChatTurn `json:"history"`
}

type CareerInsightsRequest struct {
	Category  string `json:"category"`
	Subcareer string `json:"subcareer"`
}

type MarketAnalysisRequest struct {
	Subcareer string `json:"subcareer"`
}

type CollegeRecommendationsRequest struct {
	Subcareer string `json:"subcareer"`
}

type JobsRequest struct {
	Role     string `json:"role"`
	Location string `json:"location"`
}

// ChatResponse is the chat endpoint payload
type ChatResponse struct {
	Answer string `json:"answer"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// AI gateway (lazy, process-wide LLM handle)
	Gateway *ai.Gateway

	// Career catalog served by the careers endpoint
	Careers        *careers.Catalog
	catalogWatcher *careers.CatalogWatcher

	// Job search aggregator
	Jobs *search.JobAggregator

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *careerErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct.
// The search client backs both the jobs endpoint and the agent's web
// search tool, so the server wires it up once and shares it.
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *careerErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	searchClient := search.NewClient(search.Config{
		APIKey:  appCfg.Search.APIKey,
		BaseURL: appCfg.Search.BaseURL,
		Timeout: appCfg.Search.Timeout,
		Gl:      appCfg.Search.Gl,
		Hl:      appCfg.Search.Hl,
	}, logger)

	catalog := careers.NewCatalog(logger)
	if appCfg.Careers.CatalogFile != "" {
		if err := catalog.LoadFile(appCfg.Careers.CatalogFile); err != nil {
			logger.LogError(err, "Failed to load career catalog file, using built-in catalog",
				"path", appCfg.Careers.CatalogFile)
		}
	}

	var watcher *careers.CatalogWatcher
	if appCfg.Careers.Watch && appCfg.Careers.CatalogFile != "" {
		watcher = careers.NewCatalogWatcher(
			appCfg.Careers.CatalogFile,
			catalog,
			appCfg.Careers.DebounceDelay,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		Gateway:        ai.NewGateway(appCfg, searchClient, logger),
		Careers:        catalog,
		catalogWatcher: watcher,
		Jobs:           search.NewJobAggregator(searchClient, logger),
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
