package formatters

import (
	"encoding/json"
	"strings"

	"careercompass/internal/types"
)

// Markers fencing the chart directive the prompts instruct the model
// to emit. The directive is a prompt-level contract only, so parsing
// must tolerate absence and malformation.
const (
	ChartMarkerStart = "<!-- CHART_DATA"
	ChartMarkerEnd   = "-->"
)

// ParseChartDirective extracts the fenced chart JSON from model
// output. It returns the text with the directive removed and the
// parsed payload, or nil when no well-formed directive is present.
// A malformed directive is stripped and treated as "no chart".
func ParseChartDirective(text string) (string, *types.ChartData) {
	start := strings.Index(text, ChartMarkerStart)
	if start < 0 {
		return text, nil
	}

	rest := text[start+len(ChartMarkerStart):]
	end := strings.Index(rest, ChartMarkerEnd)
	if end < 0 {
		// Unterminated directive, drop everything from the marker on.
		return strings.TrimSpace(text[:start]), nil
	}

	payload := strings.TrimSpace(rest[:end])
	remainder := strings.TrimSpace(text[:start] + rest[end+len(ChartMarkerEnd):])

	var chart types.ChartData
	if err := json.Unmarshal([]byte(payload), &chart); err != nil {
		return remainder, nil
	}
	if chart.Type == "" || len(chart.Labels) == 0 || len(chart.Data) == 0 {
		return remainder, nil
	}
	if len(chart.Labels) != len(chart.Data) {
		return remainder, nil
	}

	return remainder, &chart
}

// NormalizeResult normalizes model output and splits off any chart
// directive in one step.
func NormalizeResult(raw string) types.MarkdownResult {
	body, chart := ParseChartDirective(Normalize(raw))
	return types.MarkdownResult{Result: body, Chart: chart}
}
