package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseArray extracts the outermost JSON array from a model reply and
// unmarshals it into v. Models wrap their JSON in prose or markdown
// fences often enough that locating the brackets beats strict parsing.
func parseArray(reply string, v any) error {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("%w: no JSON array in reply", ErrInvalidOutput)
	}

	raw := reply[start : end+1]
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		// Literal tab characters inside strings are the most common
		// defect in otherwise valid replies; escape them and try again.
		if retryErr := json.Unmarshal([]byte(strings.ReplaceAll(raw, "\t", `\t`)), v); retryErr != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
	}
	return nil
}
