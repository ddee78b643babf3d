package formatters

import (
	"strings"

	"careercompass/internal/types"
)

// Normalize cleans raw model output for display. Some client bindings
// hand back the debug form of a message object, so a leading
// content='...' or content="..." wrapper is stripped along with the
// matching trailing quote. Escaped newlines become real ones, carriage
// returns are dropped, and runs of three or more newlines collapse to
// a paragraph break. Never fails; worst case returns the trimmed input.
func Normalize(raw string) string {
	val := raw

	if strings.HasPrefix(val, "content='") || strings.HasPrefix(val, `content="`) {
		quote := val[len("content=")]
		val = val[len("content=")+1:]
		if len(val) > 0 && val[len(val)-1] == quote {
			val = val[:len(val)-1]
		}
	}

	val = strings.ReplaceAll(val, `\n`, "\n")
	val = strings.ReplaceAll(val, "\r", "")

	for strings.Contains(val, "\n\n\n") {
		val = strings.ReplaceAll(val, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(val)
}

// NormalizeResponse resolves a model response to its underlying text
// and normalizes it.
func NormalizeResponse(resp types.ModelResponse) string {
	return Normalize(resp.Raw())
}
