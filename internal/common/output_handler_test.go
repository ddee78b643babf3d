package common

import (
	"encoding/json"
	stdErrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appErrors "careercompass/internal/errors"
	"careercompass/internal/types"
)

func testLogger(t *testing.T) *appErrors.Logger {
	t.Helper()
	logger, err := appErrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func TestFormatOutput(t *testing.T) {
	result := types.MarkdownResult{Result: "## Career Insights\nSome analysis"}

	tests := []struct {
		name    string
		data    any
		format  string
		want    string
		wantErr bool
	}{
		{"default is markdown", result, "", "## Career Insights\nSome analysis\n", false},
		{"explicit markdown", result, "markdown", "## Career Insights\nSome analysis\n", false},
		{"text alias", "plain output", "text", "plain output\n", false},
		{"unknown format", result, "xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatOutput(tt.data, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var appErr *appErrors.AppError
				if !stdErrors.As(err, &appErr) {
					t.Fatalf("expected AppError, got %T", err)
				}
				if appErr.Code != appErrors.ErrCodeInvalidFormat {
					t.Errorf("expected code %s, got %s", appErrors.ErrCodeInvalidFormat, appErr.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("formatOutput failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatOutputJSON(t *testing.T) {
	jobs := []types.JobListing{
		{Title: "Data Scientist", Company: "Acme", Location: "Pune", Link: "#"},
	}

	got, err := formatOutput(jobs, "json")
	if err != nil {
		t.Fatalf("formatOutput failed: %v", err)
	}

	var decoded []types.JobListing
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Title != "Data Scientist" {
		t.Errorf("unexpected round trip: %+v", decoded)
	}
}

func TestRenderTextJobListings(t *testing.T) {
	out := renderText([]types.JobListing{
		{Title: "ML Engineer", Company: "Globex", Location: "Bengaluru", Link: "https://example.com"},
	})
	if !strings.Contains(out, "ML Engineer — Globex (Bengaluru)") {
		t.Errorf("unexpected rendering: %q", out)
	}

	if got := renderText([]types.JobListing{}); got != "No job listings found.\n" {
		t.Errorf("unexpected empty rendering: %q", got)
	}
}

func TestHandleOutputWritesFile(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "out", "result.md")

	oh := NewOutputHandler(testLogger(t))
	err := oh.HandleOutput("analysis body", CommandConfig{OutputFile: outFile})
	if err != nil {
		t.Fatalf("HandleOutput failed: %v", err)
	}

	content, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if string(content) != "analysis body\n" {
		t.Errorf("unexpected file content: %q", content)
	}
}

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"", "markdown", "text", "json"} {
		if err := ValidateOutputFormat(format); err != nil {
			t.Errorf("format %q should be valid: %v", format, err)
		}
	}
	if err := ValidateOutputFormat("yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
