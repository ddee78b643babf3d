package common

import (
	"bytes"
	"fmt"
	"strings"

	"careercompass/internal/errors"
	"careercompass/internal/utils"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ExtractResumeText extracts plain text from an uploaded resume. The
// format is chosen by file extension, matching what browsers send for
// the upload field. Unknown extensions are rejected, not guessed.
func ExtractResumeText(filename string, data []byte) (string, error) {
	switch utils.GetFileExtension(filename) {
	case ".txt":
		return strings.TrimSpace(string(data)), nil

	case ".pdf":
		text, err := extractPDFText(data)
		if err != nil {
			return "", errors.NewIOError(errors.ErrCodeFileParseFailed,
				fmt.Sprintf("Failed to parse PDF file: %s", filename), err)
		}
		return strings.TrimSpace(text), nil

	case ".docx", ".doc":
		text, err := extractDocxText(data)
		if err != nil {
			return "", errors.NewIOError(errors.ErrCodeFileParseFailed,
				fmt.Sprintf("Failed to parse Word document: %s", filename), err)
		}
		return strings.TrimSpace(text), nil

	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("Unsupported resume file type: %s", utils.GetFileExtension(filename)), nil)
	}
}

// extractPDFText concatenates the plain text of every page
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that cannot be decoded, keep the rest
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

// extractDocxText pulls paragraph text out of a Word document
func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return flattenDocxContent(doc.Editable().GetContent()), nil
}

// flattenDocxContent reduces document XML to plain text. Paragraph
// ends become newlines, every other tag is dropped.
func flattenDocxContent(content string) string {
	var out strings.Builder
	inTag := false
	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '<':
			if strings.HasPrefix(content[i:], "</w:p>") {
				out.WriteByte('\n')
			}
			inTag = true
		case c == '>':
			inTag = false
		case !inTag:
			out.WriteByte(c)
		}
	}

	text := out.String()
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&apos;", "'")
	return text
}
