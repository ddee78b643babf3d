package formatters

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain string is only trimmed",
			input:    "  Hello world  ",
			expected: "Hello world",
		},
		{
			name:     "content single-quote wrapper stripped",
			input:    "content='Career advice here'",
			expected: "Career advice here",
		},
		{
			name:     "content double-quote wrapper stripped",
			input:    `content="Career advice here"`,
			expected: "Career advice here",
		},
		{
			name:     "wrapper without trailing quote keeps body",
			input:    "content='Career advice here",
			expected: "Career advice here",
		},
		{
			name:     "escaped newlines become real newlines",
			input:    `line one\nline two`,
			expected: "line one\nline two",
		},
		{
			name:     "carriage returns dropped",
			input:    "line one\r\nline two\r",
			expected: "line one\nline two",
		},
		{
			name:     "triple newlines collapse to two",
			input:    "para one\n\n\npara two",
			expected: "para one\n\npara two",
		},
		{
			name:     "long newline run collapses to two",
			input:    "para one\n\n\n\n\n\npara two",
			expected: "para one\n\npara two",
		},
		{
			name:     "mid-text content= is untouched",
			input:    "the field content='x' means",
			expected: "the field content='x' means",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"  Hello  ",
		"content='wrapped'",
		"a\n\n\n\nb",
		`escaped\nnewline`,
		"mixed\r\ncontent='not a wrapper'\n\n\n\ndone",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalizeNoTripleNewlinesRemain(t *testing.T) {
	input := "a\n\n\nb\n\n\n\nc\n\n\n\n\nd"
	got := Normalize(input)
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("result still contains a run of 3+ newlines: %q", got)
	}
}
