package common

import (
	"errors"
	"testing"

	appErrors "careercompass/internal/errors"
)

func TestExtractResumeTextPlain(t *testing.T) {
	text, err := ExtractResumeText("resume.txt", []byte("  Jane Doe\nGo developer\n  "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Jane Doe\nGo developer" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestExtractResumeTextUppercaseExtension(t *testing.T) {
	text, err := ExtractResumeText("RESUME.TXT", []byte("plain content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "plain content" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestExtractResumeTextUnsupported(t *testing.T) {
	tests := []string{"resume.png", "resume.exe", "resume", "archive.zip"}

	for _, filename := range tests {
		t.Run(filename, func(t *testing.T) {
			_, err := ExtractResumeText(filename, []byte("content"))
			if err == nil {
				t.Fatal("expected error for unsupported file type")
			}

			var appErr *appErrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != appErrors.ErrCodeUnsupportedFileType {
				t.Errorf("expected code %s, got %s", appErrors.ErrCodeUnsupportedFileType, appErr.Code)
			}
		})
	}
}

func TestExtractResumeTextCorruptPDF(t *testing.T) {
	_, err := ExtractResumeText("resume.pdf", []byte("not a pdf"))
	if err == nil {
		t.Fatal("expected error for corrupt PDF")
	}

	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Type != appErrors.ErrorTypeIO {
		t.Errorf("expected IO error type, got %s", appErr.Type)
	}
	if appErr.Code != appErrors.ErrCodeFileParseFailed {
		t.Errorf("expected code %s, got %s", appErrors.ErrCodeFileParseFailed, appErr.Code)
	}
}

func TestExtractResumeTextCorruptDocx(t *testing.T) {
	_, err := ExtractResumeText("resume.docx", []byte("not a zip archive"))
	if err == nil {
		t.Fatal("expected error for corrupt docx")
	}
}

func TestFlattenDocxContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "paragraphs become lines",
			content: `<w:p><w:r><w:t>First line</w:t></w:r></w:p><w:p><w:r><w:t>Second line</w:t></w:r></w:p>`,
			want:    "First line\nSecond line\n",
		},
		{
			name:    "entities are decoded",
			content: `<w:p><w:r><w:t>Design &amp; Build &lt;systems&gt;</w:t></w:r></w:p>`,
			want:    "Design & Build <systems>\n",
		},
		{
			name:    "empty document",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flattenDocxContent(tt.content)
			if got != tt.want {
				t.Errorf("flattenDocxContent() = %q, want %q", got, tt.want)
			}
		})
	}
}
