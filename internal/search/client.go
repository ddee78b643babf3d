package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"careercompass/internal/errors"
)

// DefaultBaseURL is the SerpAPI search endpoint.
const DefaultBaseURL = "https://serpapi.com/search.json"

// Config holds the search API configuration. Locale is pinned to the
// Indian market by default, matching the prompt templates.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Gl      string
	Hl      string
}

// Client is a thin JSON client for SerpAPI. Both the google_jobs
// engine (structured listings) and the google engine (agent web
// search) go through it.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *errors.Logger
}

// NewClient creates a search client. The API key may be empty; calls
// will then fail with MISSING_API_KEY and callers decide how soft to
// fail.
func NewClient(cfg Config, logger *errors.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Gl == "" {
		cfg.Gl = "in"
	}
	if cfg.Hl == "" {
		cfg.Hl = "en"
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// HasAPIKey reports whether a credential is configured.
func (c *Client) HasAPIKey() bool {
	return c.config.APIKey != ""
}

// ApplyOption is one way to apply for a job in a raw result.
type ApplyOption struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// RawJob is a job record as returned by the google_jobs engine.
type RawJob struct {
	Title        string        `json:"title"`
	CompanyName  string        `json:"company_name"`
	Location     string        `json:"location"`
	Description  string        `json:"description"`
	Thumbnail    string        `json:"thumbnail"`
	ApplyOptions []ApplyOption `json:"apply_options"`
}

// JobsResponse is the subset of a google_jobs response we consume.
type JobsResponse struct {
	Error       string   `json:"error"`
	JobsResults []RawJob `json:"jobs_results"`
}

// organicResult is one entry of a google engine response.
type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// webResponse is the subset of a google engine response we consume.
type webResponse struct {
	Error          string          `json:"error"`
	AnswerBox      json.RawMessage `json:"answer_box"`
	OrganicResults []organicResult `json:"organic_results"`
}

// get issues one request and decodes the body into out. An
// API-reported error field is surfaced as SEARCH_API_FAILED.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	if c.config.APIKey == "" {
		return errors.NewSearchError(errors.ErrCodeMissingAPIKey,
			"Search API key is not configured", nil)
	}

	params.Set("api_key", c.config.APIKey)
	params.Set("gl", c.config.Gl)
	params.Set("hl", c.config.Hl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return errors.NewSearchError(errors.ErrCodeSearchAPIFailed,
			"Failed to build search request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewNetworkError(errors.ErrCodeSearchAPIFailed,
			"Search request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && c.logger != nil {
			c.logger.Warn("Failed to close search response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError(errors.ErrCodeSearchAPIFailed,
			"Failed to read search response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.NewSearchError(errors.ErrCodeSearchAPIFailed,
			fmt.Sprintf("Search API returned status %d", resp.StatusCode), nil).
			WithContext("body_length", len(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewSearchError(errors.ErrCodeSearchAPIFailed,
			"Failed to decode search response", err)
	}
	return nil
}

// JobsSearch runs one google_jobs query.
func (c *Client) JobsSearch(ctx context.Context, query string) (*JobsResponse, error) {
	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", query)

	var out JobsResponse
	if err := c.get(ctx, params, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, errors.NewSearchError(errors.ErrCodeSearchAPIFailed,
			"Search API reported an error", nil).WithContext("api_error", out.Error)
	}
	return &out, nil
}
