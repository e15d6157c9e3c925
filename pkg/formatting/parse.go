package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when no JSON value in content decodes into the
// requested type.
var ErrParseFailed = errors.New("failed to parse response")

// excerptLimit bounds how much of the rejected content is echoed in errors.
const excerptLimit = 160

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\n?(.*?)\n?```")

// Parse decodes a model response into T. Candidates are tried in order: the
// whole trimmed content, each fenced code block, and the outermost JSON object
// embedded in surrounding prose.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		var v T
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, excerpt(content))
}

func candidates(content string) []string {
	out := []string{content}

	for _, m := range fencePattern.FindAllStringSubmatch(content, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}

	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start >= 0 && end > start {
		out = append(out, content[start:end+1])
	}

	return out
}

func excerpt(content string) string {
	if content == "" {
		return "empty content"
	}
	r := []rune(content)
	if len(r) <= excerptLimit {
		return content
	}
	return string(r[:excerptLimit]) + "..."
}
