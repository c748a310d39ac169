package reasoning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSONResponse removes markdown code fences from a JSON response.
// Reasoning backends routinely wrap structured output in ```json
// fences even when asked not to.
func CleanJSONResponse(resp string) string {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	return strings.TrimSpace(resp)
}

// DecodeJSON strips code fences from raw and unmarshals the result into
// v. A parse failure is surfaced to the caller, who decides whether to
// retry, substitute a default, or abort.
func DecodeJSON(raw string, v interface{}) error {
	cleaned := CleanJSONResponse(raw)
	if cleaned == "" {
		return fmt.Errorf("empty response")
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("failed to parse structured response: %w", err)
	}
	return nil
}
