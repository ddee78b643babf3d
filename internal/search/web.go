package search

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"careercompass/internal/errors"
)

// maxWebResults bounds how many organic results are flattened into
// the tool output fed back to the model.
const maxWebResults = 5

// WebSearch runs one google engine query and flattens the response
// into plain text suitable as a tool result for the agent.
func (c *Client) WebSearch(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("google_domain", "google.com")
	params.Set("q", query)

	var out webResponse
	if err := c.get(ctx, params, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.NewSearchError(errors.ErrCodeSearchAPIFailed,
			"Search API reported an error", nil).WithContext("api_error", out.Error)
	}

	var b strings.Builder

	if len(out.AnswerBox) > 0 {
		var answer map[string]any
		if err := json.Unmarshal(out.AnswerBox, &answer); err == nil {
			for _, key := range []string{"answer", "snippet", "result"} {
				if text, ok := answer[key].(string); ok && text != "" {
					b.WriteString(text)
					b.WriteString("\n\n")
					break
				}
			}
		}
	}

	count := 0
	for _, result := range out.OrganicResults {
		if count >= maxWebResults {
			break
		}
		if result.Snippet == "" {
			continue
		}
		b.WriteString(result.Title)
		b.WriteString(": ")
		b.WriteString(result.Snippet)
		if result.Link != "" {
			b.WriteString(" (")
			b.WriteString(result.Link)
			b.WriteString(")")
		}
		b.WriteString("\n")
		count++
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "No results found.", nil
	}
	return text, nil
}
