package ai

import (
	"context"
	"errors"
	"testing"

	"careercompass/internal/config"
	appErrors "careercompass/internal/errors"
	"careercompass/internal/types"
)

type stubProvider struct {
	closed bool
}

func (s *stubProvider) Complete(ctx context.Context, operation, prompt string) (types.ModelResponse, *TokenUsage, error) {
	return types.ModelResponse{Text: "ok"}, nil, nil
}

func (s *stubProvider) RunAgent(ctx context.Context, operation, prompt string) (types.ModelResponse, *TokenUsage, error) {
	return types.ModelResponse{Text: "ok"}, nil, nil
}

func (s *stubProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	return &ModelInfo{Name: "stub", Available: true}
}

func (s *stubProvider) Close() error {
	s.closed = true
	return nil
}

func testLogger(t *testing.T) *appErrors.Logger {
	t.Helper()
	logger, err := appErrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func testGatewayConfig(apiKey string) *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			Model:  "gemini-2.0-flash",
			APIKey: apiKey,
			Agent:  config.AgentConfig{MaxSteps: 5},
		},
		Search: config.SearchConfig{APIKey: "test-search-key"},
	}
}

func TestGatewayMissingCredentials(t *testing.T) {
	tests := []struct {
		name      string
		aiKey     string
		searchKey string
	}{
		{"missing gemini key", "", "test-search-key"},
		{"missing search key", "test-key", ""},
		{"missing both keys", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testGatewayConfig(tt.aiKey)
			cfg.Search.APIKey = tt.searchKey
			gw := NewGateway(cfg, nil, testLogger(t))

			_, err := gw.Provider(context.Background())
			if err == nil {
				t.Fatal("expected error for missing credential")
			}

			var appErr *appErrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != appErrors.ErrCodeMissingAPIKey {
				t.Errorf("expected code %s, got %s", appErrors.ErrCodeMissingAPIKey, appErr.Code)
			}
			if gw.Initialized() {
				t.Error("gateway should not be initialized after failure")
			}
		})
	}
}

func TestGatewayInitOnce(t *testing.T) {
	gw := NewGateway(testGatewayConfig("test-key"), nil, testLogger(t))

	calls := 0
	stub := &stubProvider{}
	gw.newProvider = func() (Provider, error) {
		calls++
		return stub, nil
	}

	p1, err := gw.Provider(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2, err := gw.Provider(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p1 != p2 {
		t.Error("expected the same provider instance on repeated calls")
	}
	if calls != 1 {
		t.Errorf("expected a single construction, got %d", calls)
	}
	if !gw.Initialized() {
		t.Error("gateway should report initialized")
	}
}

func TestGatewayRetriesAfterFailedInit(t *testing.T) {
	gw := NewGateway(testGatewayConfig("test-key"), nil, testLogger(t))

	calls := 0
	gw.newProvider = func() (Provider, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient init failure")
		}
		return &stubProvider{}, nil
	}

	if _, err := gw.Provider(context.Background()); err == nil {
		t.Fatal("expected first initialization to fail")
	}
	if gw.Initialized() {
		t.Error("failed init must not mark the gateway initialized")
	}

	if _, err := gw.Provider(context.Background()); err != nil {
		t.Fatalf("expected second initialization to succeed, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 construction attempts, got %d", calls)
	}
}

func TestGatewayStats(t *testing.T) {
	gw := NewGateway(testGatewayConfig("test-key"), nil, testLogger(t))
	gw.newProvider = func() (Provider, error) {
		return &stubProvider{}, nil
	}

	stats := gw.Stats()
	if stats["initialized"] != false {
		t.Error("expected initialized=false before first use")
	}
	if stats["has_api_key"] != true {
		t.Error("expected has_api_key=true")
	}

	if _, err := gw.Provider(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats = gw.Stats()
	if stats["initialized"] != true {
		t.Error("expected initialized=true after first use")
	}
}

func TestGatewayClose(t *testing.T) {
	gw := NewGateway(testGatewayConfig("test-key"), nil, testLogger(t))
	stub := &stubProvider{}
	gw.newProvider = func() (Provider, error) {
		return stub, nil
	}

	if _, err := gw.Provider(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if !stub.closed {
		t.Error("expected provider to be closed")
	}
	if gw.Initialized() {
		t.Error("gateway should be uninitialized after close")
	}
}
