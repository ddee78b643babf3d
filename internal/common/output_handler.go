package common

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"careercompass/internal/errors"
	"careercompass/internal/types"
)

// SupportedOutputFormats lists the formats CLI commands can emit.
var SupportedOutputFormats = []string{"markdown", "text", "json"}

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	logger        *errors.Logger
}

// NewOutputHandler creates a new output handler
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		logger:        logger,
	}
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	// Validate output file
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	output, err := formatOutput(data, config.OutputFormat)
	if err != nil {
		return err
	}

	// Write output
	if config.OutputFile != "" {
		err = oh.fileProcessor.WriteFile(config.OutputFile, output)
		if err != nil {
			return err // Error already wrapped by WriteFile
		}

		oh.logger.Info("Output written successfully",
			"file", config.OutputFile, "format", config.OutputFormat)
	} else {
		fmt.Print(output)
	}

	return nil
}

// formatOutput renders data in one of the supported formats. Markdown
// and text are equivalent: model output is already markdown.
func formatOutput(data any, format string) (string, error) {
	switch format {
	case "json":
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", errors.NewInternalError(errors.ErrCodeOutputEncodeFailed,
				"Failed to encode output as JSON", err)
		}
		return string(encoded) + "\n", nil
	case "", "markdown", "text":
		return renderText(data), nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unsupported output format: %s", format), nil)
	}
}

func renderText(data any) string {
	switch v := data.(type) {
	case string:
		return ensureTrailingNewline(v)
	case types.MarkdownResult:
		return ensureTrailingNewline(v.Result)
	case []types.JobListing:
		if len(v) == 0 {
			return "No job listings found.\n"
		}
		var b strings.Builder
		for _, job := range v {
			fmt.Fprintf(&b, "%s — %s (%s)\n  %s\n", job.Title, job.Company, job.Location, job.Link)
		}
		return b.String()
	default:
		return ensureTrailingNewline(fmt.Sprintf("%v", data))
	}
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// ValidateOutputFormat validates a format against the supported set
func ValidateOutputFormat(format string) error {
	if format == "" || slices.Contains(SupportedOutputFormats, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, SupportedOutputFormats)
}
