package ai

import (
	"context"
	"errors"
	"fmt"

	appErrors "careercompass/internal/errors"
	"careercompass/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const webSearchToolName = "web_search"

// webSearchDeclaration describes the search tool exposed to the model
var webSearchDeclaration = &genai.FunctionDeclaration{
	Name:        webSearchToolName,
	Description: "Use to search the web for job market trends, salaries, companies, Indian colleges, and live data.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"query": {
				Type:        genai.TypeString,
				Description: "The search query",
			},
		},
		Required: []string{"query"},
	},
}

// RunAgent runs a prompt through a bounded tool-calling loop. Each
// step is one model round-trip; when the model responds without
// requesting a tool, that response is the final answer. The loop never
// exceeds the configured step budget, and tool failures are reported
// back to the model rather than aborting the run.
func (g *GeminiProvider) RunAgent(ctx context.Context, operation, prompt string) (types.ModelResponse, *TokenUsage, error) {
	if g.searcher == nil {
		return types.ModelResponse{}, nil, appErrors.NewAIError(appErrors.ErrCodeAgentInitFailed,
			"Agent requires a search tool", nil)
	}

	tracer := otel.Tracer("careercompass.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.agent."+operation)
	defer span.End()

	maxSteps := g.config.Agent.MaxSteps
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Int("agent.max_steps", maxSteps),
		attribute.Int("input.prompt_length", len(prompt)),
	)

	runCtx := ctx
	if g.config.Agent.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, g.config.Agent.Timeout)
		defer cancel()
	}

	genConfig := g.buildGenerateConfig([]*genai.Tool{
		{FunctionDeclarations: []*genai.FunctionDeclaration{webSearchDeclaration}},
	})

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	totalUsage := &TokenUsage{}

	for step := 1; step <= maxSteps; step++ {
		result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
			return g.executeWithRetry(runCtx, operation, func() (*genai.GenerateContentResponse, error) {
				return g.client.Models.GenerateContent(runCtx, g.config.Model, contents, genConfig)
			})
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("success", false), attribute.Int("agent.steps", step))
			if errors.Is(err, context.DeadlineExceeded) {
				return types.ModelResponse{}, totalUsage, appErrors.NewAIError(appErrors.ErrCodeAITimeout,
					"Agent run timed out for "+operation, err)
			}
			return types.ModelResponse{}, totalUsage, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
				"Agent step failed for "+operation, err)
		}

		totalUsage.Add(extractTokenUsage(result))

		calls := result.FunctionCalls()
		if len(calls) == 0 {
			// No tool request means the model has produced its answer
			span.SetAttributes(
				attribute.Bool("success", true),
				attribute.Int("agent.steps", step),
			)
			recordTokenUsage(span, totalUsage)
			return types.ModelResponse{Text: result.Text()}, totalUsage, nil
		}

		if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			contents = append(contents, result.Candidates[0].Content)
		}

		responseParts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			responseParts = append(responseParts, g.executeToolCall(runCtx, operation, call))
		}
		contents = append(contents, genai.NewContentFromParts(responseParts, genai.RoleUser))
	}

	span.SetAttributes(attribute.Bool("success", false), attribute.Int("agent.steps", maxSteps))
	recordTokenUsage(span, totalUsage)
	return types.ModelResponse{}, totalUsage, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
		fmt.Sprintf("Agent did not reach a final answer within %d steps", maxSteps), nil)
}

// executeToolCall dispatches one tool request and wraps the outcome as
// a function response part. Tool errors are fed back to the model so
// it can recover or answer without live data.
func (g *GeminiProvider) executeToolCall(ctx context.Context, operation string, call *genai.FunctionCall) *genai.Part {
	if call.Name != webSearchToolName {
		g.logger.Warn("Model requested unknown tool",
			"operation", operation,
			"tool", call.Name)
		return genai.NewPartFromFunctionResponse(call.Name, map[string]any{
			"error": fmt.Sprintf("unknown tool: %s", call.Name),
		})
	}

	query, _ := call.Args["query"].(string)
	if query == "" {
		return genai.NewPartFromFunctionResponse(call.Name, map[string]any{
			"error": "query argument is required",
		})
	}

	g.logger.Debug("Agent tool call",
		"operation", operation,
		"tool", call.Name,
		"query", query)

	results, err := g.searcher.WebSearch(ctx, query)
	if err != nil {
		g.logger.Warn("Web search tool failed",
			"operation", operation,
			"query", query,
			"error", err.Error())
		return genai.NewPartFromFunctionResponse(call.Name, map[string]any{
			"error": fmt.Sprintf("search failed: %v", err),
		})
	}

	return genai.NewPartFromFunctionResponse(call.Name, map[string]any{
		"results": results,
	})
}
