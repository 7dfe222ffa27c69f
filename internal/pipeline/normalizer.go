package pipeline

import (
	"errors"
	"strings"
)

// ErrNoJSONObject is returned when the model output contains no
// recognizable JSON object.
var ErrNoJSONObject = errors.New("no JSON object found in model output")

// NormalizeModelOutput strips markdown code-fence artifacts from raw
// LLM output and extracts the first {...} substring (first opening
// brace to last closing brace). Nested braces inside string values are
// tolerated; trailing prose after the object is discarded. The result
// is a candidate only; validity is the parser's job.
func NormalizeModelOutput(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSuffix(text, "```")
	}
	text = strings.TrimSpace(text)

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", ErrNoJSONObject
	}

	return text[start : end+1], nil
}
