package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"careercompass/internal/ai"
	"careercompass/internal/formatters"
	"careercompass/internal/observability"
	"careercompass/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// runModelOperation resolves the AI gateway and runs a prompt through
// the model with tracing and token accounting. The agent path gives the
// model access to the web search tool; the plain path is a single-turn
// completion.
func (s *Server) runModelOperation(ctx context.Context, om *observability.ObservabilityManager, operation, prompt string, useAgent bool) (types.ModelResponse, error) {
	provider, err := s.Gateway.Provider(ctx)
	if err != nil {
		return types.ModelResponse{}, err
	}

	metrics := om.GetMetrics()
	var response types.ModelResponse
	err = metrics.TrackAIOperationWithTokens(ctx, operation, func(ctx context.Context) *observability.AIOperationResult {
		var output types.ModelResponse
		var tokenUsage *ai.TokenUsage
		var aiErr error
		if useAgent {
			output, tokenUsage, aiErr = provider.RunAgent(ctx, operation, prompt)
		} else {
			output, tokenUsage, aiErr = provider.Complete(ctx, operation, prompt)
		}
		response = output
		return &observability.AIOperationResult{
			Error:      aiErr,
			TokenUsage: (*observability.TokenUsage)(tokenUsage),
		}
	})

	return response, err
}

// createChatHandler wraps the chat handler with observability. Chat is
// the one conversational surface, so it runs through the tool-using
// agent rather than a plain completion.
func (s *Server) createChatHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careercompass.api")
		ctx, span := tracer.Start(ctx, "api.chat")
		defer span.End()

		var req ChatRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Message) == "" {
			err := fmt.Errorf("missing message")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing message", "message field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.message_length", len(req.Message)),
			attribute.Int("request.history_turns", len(req.History)),
			attribute.String("operation", "chat"),
		)

		prompt := ai.BuildChatPrompt(types.ChatInput{
			Message: req.Message,
			History: req.History,
		})

		metrics := om.GetMetrics()
		response, err := s.runModelOperation(ctx, om, "chat", prompt, true)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "chat_message", false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to generate chat response", err.Error(), http.StatusInternalServerError)
			return
		}

		answer := formatters.NormalizeResponse(response)

		metrics.RecordBusinessMetric(ctx, "chat_message", true,
			attribute.Int("output.answer_length", len(answer)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.answer_length", len(answer)),
		)

		writeJSONResponse(w, span, ChatResponse{Answer: answer})
	}
}

// createCareerInsightsHandler wraps the career insights handler with observability
func (s *Server) createCareerInsightsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careercompass.api")
		ctx, span := tracer.Start(ctx, "api.career_insights")
		defer span.End()

		var req CareerInsightsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Category) == "" {
			err := fmt.Errorf("missing category")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing category", "category field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Subcareer) == "" {
			err := fmt.Errorf("missing subcareer")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing subcareer", "subcareer field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.category", req.Category),
			attribute.String("request.subcareer", req.Subcareer),
			attribute.String("operation", "career_insights"),
		)

		prompt := ai.BuildCareerInsightsPrompt(types.CareerInsightsInput{
			Category:  req.Category,
			Subcareer: req.Subcareer,
		})

		metrics := om.GetMetrics()
		response, err := s.runModelOperation(ctx, om, "career_insights", prompt, false)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "career_insights", false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to generate career insights", err.Error(), http.StatusInternalServerError)
			return
		}

		result := formatters.NormalizeResult(response.Raw())

		metrics.RecordBusinessMetric(ctx, "career_insights", true,
			attribute.Int("output.result_length", len(result.Result)),
			attribute.Bool("output.has_chart", result.Chart != nil))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.result_length", len(result.Result)),
			attribute.Bool("response.has_chart", result.Chart != nil),
		)

		writeJSONResponse(w, span, result)
	}
}

// createMarketAnalysisHandler wraps the market analysis handler with observability
func (s *Server) createMarketAnalysisHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careercompass.api")
		ctx, span := tracer.Start(ctx, "api.market_analysis")
		defer span.End()

		var req MarketAnalysisRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Subcareer) == "" {
			err := fmt.Errorf("missing subcareer")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing subcareer", "subcareer field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.subcareer", req.Subcareer),
			attribute.String("operation", "market_analysis"),
		)

		prompt := ai.BuildMarketAnalysisPrompt(types.MarketAnalysisInput{
			Subcareer: req.Subcareer,
		})

		metrics := om.GetMetrics()
		response, err := s.runModelOperation(ctx, om, "market_analysis", prompt, false)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "market_analysis", false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to generate market analysis", err.Error(), http.StatusInternalServerError)
			return
		}

		result := formatters.NormalizeResult(response.Raw())

		metrics.RecordBusinessMetric(ctx, "market_analysis", true,
			attribute.Int("output.result_length", len(result.Result)),
			attribute.Bool("output.has_chart", result.Chart != nil))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.result_length", len(result.Result)),
			attribute.Bool("response.has_chart", result.Chart != nil),
		)

		writeJSONResponse(w, span, result)
	}
}

// createCollegeRecommendationsHandler wraps the college recommendations handler with observability
func (s *Server) createCollegeRecommendationsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careercompass.api")
		ctx, span := tracer.Start(ctx, "api.college_recommendations")
		defer span.End()

		var req CollegeRecommendationsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Subcareer) == "" {
			err := fmt.Errorf("missing subcareer")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing subcareer", "subcareer field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.subcareer", req.Subcareer),
			attribute.String("operation", "college_recommendations"),
		)

		prompt := ai.BuildCollegeRecommendationsPrompt(types.CollegeRecommendationsInput{
			Subcareer: req.Subcareer,
		})

		metrics := om.GetMetrics()
		response, err := s.runModelOperation(ctx, om, "college_recommendations", prompt, false)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "college_recommendations", false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to generate college recommendations", err.Error(), http.StatusInternalServerError)
			return
		}

		result := formatters.NormalizeResult(response.Raw())

		metrics.RecordBusinessMetric(ctx, "college_recommendations", true,
			attribute.Int("output.result_length", len(result.Result)),
			attribute.Bool("output.has_chart", result.Chart != nil))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.result_length", len(result.Result)),
			attribute.Bool("response.has_chart", result.Chart != nil),
		)

		writeJSONResponse(w, span, result)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// writeJSONResponse encodes a successful response body
func writeJSONResponse(w http.ResponseWriter, span trace.Span, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
