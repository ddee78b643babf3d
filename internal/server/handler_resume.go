package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"careercompass/internal/ai"
	"careercompass/internal/common"
	careerErrors "careercompass/internal/errors"
	"careercompass/internal/formatters"
	"careercompass/internal/observability"
	"careercompass/internal/types"
	"careercompass/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// createResumeAnalysisHandler wraps the resume analysis handler with
// observability. The endpoint accepts multipart form data: either a
// resume_text field or an uploaded file part; a non-empty upload wins
// over pasted text.
func (s *Server) createResumeAnalysisHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careercompass.api")
		ctx, span := tracer.Start(ctx, "api.resume_analysis")
		defer span.End()

		if err := r.ParseMultipartForm(s.MaxRequestSize); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid form data", err.Error(), http.StatusBadRequest)
			return
		}

		resumeText := r.FormValue("resume_text")
		targetRole := r.FormValue("target_role")

		file, header, err := r.FormFile("file")
		if err == nil && header.Filename != "" {
			defer func() {
				if closeErr := file.Close(); closeErr != nil {
					s.Logger.Warn("Failed to close uploaded file", "error", closeErr)
				}
			}()

			data, readErr := io.ReadAll(file)
			if readErr != nil {
				span.RecordError(readErr)
				span.SetAttributes(attribute.String("error.type", "io"))
				writeErrorResponse(w, "Failed to read uploaded file", readErr.Error(), http.StatusBadRequest)
				return
			}

			extracted, extractErr := common.ExtractResumeText(header.Filename, data)
			if extractErr != nil {
				span.RecordError(extractErr)
				span.SetAttributes(attribute.String("error.type", "extraction"))
				writeErrorResponse(w, "Failed to extract resume text", extractErr.Error(), extractionStatusCode(extractErr))
				return
			}
			resumeText = extracted

			s.Logger.Debug("Resume file extracted",
				"filename", header.Filename,
				"file_size", utils.FormatFileSize(header.Size),
				"text_chars", len(resumeText))

			span.SetAttributes(
				attribute.String("request.filename", header.Filename),
				attribute.Int("request.file_size", len(data)),
			)
		}

		if strings.TrimSpace(resumeText) == "" {
			err := fmt.Errorf("no resume content provided")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "No resume content provided", "resume_text field or file upload is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(resumeText)),
			attribute.String("request.target_role", targetRole),
			attribute.String("operation", "resume_feedback"),
		)

		prompt := ai.BuildResumeFeedbackPrompt(types.ResumeFeedbackInput{
			ResumeText: resumeText,
			TargetRole: targetRole,
		})

		metrics := om.GetMetrics()
		response, err := s.runModelOperation(ctx, om, "resume_feedback", prompt, false)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_feedback", false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to analyze resume", err.Error(), http.StatusInternalServerError)
			return
		}

		result := formatters.NormalizeResult(response.Raw())

		metrics.RecordBusinessMetric(ctx, "resume_feedback", true,
			attribute.Int("output.result_length", len(result.Result)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.result_length", len(result.Result)),
		)

		writeJSONResponse(w, span, result)
	}
}

// extractionStatusCode maps extraction failures to HTTP status codes.
// A bad upload is the client's problem; anything else is ours.
func extractionStatusCode(err error) int {
	var appErr *careerErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case careerErrors.ErrorTypeValidation:
			return http.StatusBadRequest
		case careerErrors.ErrorTypeIO:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
