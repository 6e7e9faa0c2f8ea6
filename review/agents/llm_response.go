package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/duckyhq/ducky/review/models"
)

// decodeStrict unmarshals an LLM response into target. The only tolerated
// deviation from pure JSON is a surrounding markdown code fence; anything
// else fails the decode and the caller falls back to its degraded variant.
func decodeStrict(raw string, target interface{}) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}

	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
				lines = lines[:len(lines)-1]
			}
			trimmed = strings.TrimSpace(strings.Join(lines, "\n"))
		}
	}

	return json.Unmarshal([]byte(trimmed), target) == nil
}

// formatWarning renders the accumulated warning for inclusion in a prompt.
func formatWarning(warning *models.WarningMessage) string {
	if warning == nil || !warning.HasFinding() {
		return "(no warning yet)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", warning.Title())
	fmt.Fprintf(&b, "Severity: %s (confidence %.2f)\n", warning.Severity(), warning.Confidence())
	for _, desc := range warning.Description() {
		fmt.Fprintf(&b, "Description: %s\n", desc)
	}
	for _, suggestion := range warning.Suggestions() {
		fmt.Fprintf(&b, "Suggestion: %s\n", suggestion)
	}
	return b.String()
}

// clamp bounds a float to [min, max].
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
