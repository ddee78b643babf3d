package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	appErrors "careercompass/internal/errors"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("file content"), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	fp := NewFileProcessor(nil)
	content, err := fp.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "file content" {
		t.Errorf("unexpected content: %q", content)
	}
}

func TestReadFileNotFound(t *testing.T) {
	fp := NewFileProcessor(nil)
	_, err := fp.ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != appErrors.ErrCodeFileNotFound {
		t.Errorf("expected code %s, got %s", appErrors.ErrCodeFileNotFound, appErr.Code)
	}
}

func TestReadResumeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("  Jane Doe  "), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	fp := NewFileProcessor(nil)
	content, err := fp.ReadResumeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "Jane Doe" {
		t.Errorf("unexpected content: %q", content)
	}
}

func TestReadResumeFileUnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.png")
	if err := os.WriteFile(path, []byte("binary"), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	fp := NewFileProcessor(nil)
	_, err := fp.ReadResumeFile(path)
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}

	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != appErrors.ErrCodeUnsupportedFileType {
		t.Errorf("expected code %s, got %s", appErrors.ErrCodeUnsupportedFileType, appErr.Code)
	}
}
