package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"careercompass/internal/config"
	appErrors "careercompass/internal/errors"
	"careercompass/internal/observability"
	"careercompass/internal/types"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.AI.Model = "gemini-2.0-flash"
	cfg.AI.Timeout = 5 * time.Second
	cfg.AI.Temperature = 0.1
	cfg.AI.Agent.MaxSteps = 3
	cfg.AI.Agent.Timeout = 5 * time.Second
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8080"
	cfg.App.MaxFileSize = 1 << 20
	cfg.Observability.HealthCheck.Timeout = time.Second
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, sc ServerConfig) (*Server, *observability.ObservabilityManager) {
	t.Helper()

	if sc.MaxRequestSize == 0 {
		sc.MaxRequestSize = 1 << 20
	}
	sc.Version = "test"

	logger, err := appErrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	om, err := observability.NewObservabilityManager(
		observability.ObservabilityConfig{Enabled: false}, cfg)
	if err != nil {
		t.Fatalf("NewObservabilityManager failed: %v", err)
	}

	return NewServer(cfg, sc, logger), om
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestCareersHandler(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), ServerConfig{})

	rec := httptest.NewRecorder()
	s.careersHandler(rec, httptest.NewRequest(http.MethodGet, "/api/careers", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var catalog map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&catalog); err != nil {
		t.Fatalf("failed to decode careers response: %v", err)
	}
	if len(catalog) == 0 {
		t.Error("expected at least one career category")
	}
	for category, subcareers := range catalog {
		if len(subcareers) == 0 {
			t.Errorf("category %q has no subcareers", category)
		}
	}
}

func TestCareersHandlerMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), ServerConfig{})

	rec := httptest.NewRecorder()
	s.careersHandler(rec, httptest.NewRequest(http.MethodPost, "/api/careers", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestChatHandlerValidation(t *testing.T) {
	s, om := newTestServer(t, testConfig(), ServerConfig{})
	handler := s.createChatHandler(om)

	tests := []struct {
		name       string
		request    *http.Request
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing content type",
			request:    httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`)),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "malformed json",
			request:    jsonRequest(http.MethodPost, "/api/chat", `{"message":`),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "empty message",
			request:    jsonRequest(http.MethodPost, "/api/chat", `{"message":"   "}`),
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler(rec, tt.request)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if resp := decodeError(t, rec); resp.Error != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, resp.Error)
			}
		})
	}
}

func TestChatHandlerMissingAPIKey(t *testing.T) {
	s, om := newTestServer(t, testConfig(), ServerConfig{})
	handler := s.createChatHandler(om)

	rec := httptest.NewRecorder()
	handler(rec, jsonRequest(http.MethodPost, "/api/chat", `{"message":"how do I become a data scientist?"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without gemini key, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error != "Failed to generate chat response" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
}

func TestChatHandlerMissingSearchKey(t *testing.T) {
	cfg := testConfig()
	cfg.AI.APIKey = "test-key"
	cfg.Search.APIKey = ""
	s, om := newTestServer(t, cfg, ServerConfig{})
	handler := s.createChatHandler(om)

	rec := httptest.NewRecorder()
	handler(rec, jsonRequest(http.MethodPost, "/api/chat", `{"message":"how do I become a data scientist?"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without search key, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error != "Failed to generate chat response" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
}

func TestCareerInsightsValidation(t *testing.T) {
	s, om := newTestServer(t, testConfig(), ServerConfig{})
	handler := s.createCareerInsightsHandler(om)

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"missing category", `{"subcareer":"Data Scientist"}`, "Missing category"},
		{"missing subcareer", `{"category":"Technology"}`, "Missing subcareer"},
		{"blank fields", `{"category":" ","subcareer":" "}`, "Missing category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler(rec, jsonRequest(http.MethodPost, "/api/career-insights", tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if resp := decodeError(t, rec); resp.Error != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, resp.Error)
			}
		})
	}
}

func TestMarketAnalysisValidation(t *testing.T) {
	s, om := newTestServer(t, testConfig(), ServerConfig{})
	handler := s.createMarketAnalysisHandler(om)

	rec := httptest.NewRecorder()
	handler(rec, jsonRequest(http.MethodPost, "/api/market-analysis", `{}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "Missing subcareer" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
}

func TestCollegeRecommendationsValidation(t *testing.T) {
	s, om := newTestServer(t, testConfig(), ServerConfig{})
	handler := s.createCollegeRecommendationsHandler(om)

	rec := httptest.NewRecorder()
	handler(rec, jsonRequest(http.MethodPost, "/api/college-recommendations", `{"subcareer":""}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestJobsHandlerValidation(t *testing.T) {
	s, om := newTestServer(t, testConfig(), ServerConfig{})
	handler := s.createJobsHandler(om)

	rec := httptest.NewRecorder()
	handler(rec, jsonRequest(http.MethodPost, "/api/jobs", `{"location":"Mumbai"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "Role is required" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
}

func TestJobsHandler(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jobs_results":[
			{"title":"Data Scientist","company_name":"Acme","location":"Bengaluru",
			 "description":"Build models","apply_options":[{"title":"Apply","link":"https://example.com/apply"}]},
			{"title":"ML Engineer","company_name":"Globex","location":"Pune","description":"Ship models"}
		]}`))
	}))
	defer backend.Close()

	cfg := testConfig()
	cfg.Search.APIKey = "test-key"
	cfg.Search.BaseURL = backend.URL

	s, om := newTestServer(t, cfg, ServerConfig{})
	handler := s.createJobsHandler(om)

	rec := httptest.NewRecorder()
	handler(rec, jsonRequest(http.MethodPost, "/api/jobs", `{"role":"Data Scientist"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var jobs []types.JobListing
	if err := json.NewDecoder(rec.Body).Decode(&jobs); err != nil {
		t.Fatalf("failed to decode jobs response: %v", err)
	}
	// Both variants return the same two listings; dedup keeps each once.
	if len(jobs) != 2 {
		t.Fatalf("expected 2 deduplicated listings, got %d", len(jobs))
	}
	if jobs[0].Title != "Data Scientist" || jobs[0].Company != "Acme" {
		t.Errorf("unexpected first listing: %+v", jobs[0])
	}
	if jobs[1].Link != "#" {
		t.Errorf("expected placeholder link for listing without apply options, got %q", jobs[1].Link)
	}
}

func TestJobsHandlerSearchFailureIsSoft(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	cfg := testConfig()
	cfg.Search.APIKey = "test-key"
	cfg.Search.BaseURL = backend.URL

	s, om := newTestServer(t, cfg, ServerConfig{})
	handler := s.createJobsHandler(om)

	rec := httptest.NewRecorder()
	handler(rec, jsonRequest(http.MethodPost, "/api/jobs", `{"role":"Data Scientist"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on soft failure, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %q", body)
	}
}

func multipartRequest(t *testing.T, fields map[string]string, filename string, fileContent []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/resume-analysis", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestResumeAnalysisEmptyInput(t *testing.T) {
	s, om := newTestServer(t, testConfig(), ServerConfig{})
	handler := s.createResumeAnalysisHandler(om)

	rec := httptest.NewRecorder()
	handler(rec, multipartRequest(t, map[string]string{"target_role": "Data Scientist"}, "", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "No resume content provided" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
}

func TestResumeAnalysisUnsupportedFileType(t *testing.T) {
	s, om := newTestServer(t, testConfig(), ServerConfig{})
	handler := s.createResumeAnalysisHandler(om)

	rec := httptest.NewRecorder()
	handler(rec, multipartRequest(t, nil, "resume.png", []byte("not a resume")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported file type, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "Failed to extract resume text" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
}

func TestResumeAnalysisFileOverridesText(t *testing.T) {
	s, om := newTestServer(t, testConfig(), ServerConfig{})
	handler := s.createResumeAnalysisHandler(om)

	// A .txt upload should be extracted and reach the gateway; without a
	// gemini key the gateway rejects, proving the content survived.
	rec := httptest.NewRecorder()
	handler(rec, multipartRequest(t, map[string]string{"resume_text": "pasted"}, "resume.txt", []byte("uploaded resume text")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without gemini key, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "Failed to analyze resume" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s, om := newTestServer(t, testConfig(), ServerConfig{
		APIKeys: []string{"secret-key-12345"},
	})
	handler := s.authMiddleware(s.createChatHandler(om))

	t.Run("missing key", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, jsonRequest(http.MethodPost, "/api/chat", `{"message":"hi"}`))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/chat", `{"message":"hi"}`)
		req.Header.Set("X-API-Key", "wrong")
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid key reaches handler", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/chat", `{"message":""}`)
		req.Header.Set("X-API-Key", "secret-key-12345")
		rec := httptest.NewRecorder()
		handler(rec, req)
		// Past auth, rejected by validation instead
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("bearer token fallback", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/chat", `{"message":""}`)
		req.Header.Set("Authorization", "Bearer secret-key-12345")
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 1,
		BurstCapacity:  1,
		ByIP:           true,
		Window:         time.Minute,
	}
	s, om := newTestServer(t, testConfig(), ServerConfig{RateLimit: rl})
	handler := s.createRateLimitMiddleware(om)(s.createChatHandler(om))

	first := httptest.NewRecorder()
	handler(first, jsonRequest(http.MethodPost, "/api/chat", `{"message":""}`))
	if first.Code != http.StatusBadRequest {
		t.Fatalf("first request: expected 400, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler(second, jsonRequest(http.MethodPost, "/api/chat", `{"message":""}`))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", second.Code)
	}
	if resp := decodeError(t, second); resp.Error != "Rate limit exceeded" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
}

func TestHealthHandlerDegraded(t *testing.T) {
	// No gemini key configured: the service reports degraded
	s, _ := newTestServer(t, testConfig(), ServerConfig{})

	rec := httptest.NewRecorder()
	s.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "degraded" {
		t.Errorf("expected degraded status, got %v", resp["status"])
	}
	if resp["service"] != "careercompass" {
		t.Errorf("unexpected service name: %v", resp["service"])
	}
}

func TestStatsHandler(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), ServerConfig{})

	rec := httptest.NewRecorder()
	s.statsHandler(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode stats response: %v", err)
	}
	if resp["service"] != "careercompass" {
		t.Errorf("unexpected service name: %v", resp["service"])
	}
	gateway, ok := resp["ai_gateway"].(map[string]any)
	if !ok {
		t.Fatalf("expected ai_gateway stats, got %v", resp["ai_gateway"])
	}
	if gateway["initialized"] != false {
		t.Errorf("expected uninitialized gateway, got %v", gateway["initialized"])
	}
	if resp["rate_limiting"].(map[string]any)["enabled"] != false {
		t.Error("expected rate limiting disabled")
	}
}
