package llm

import (
	"encoding/json"
	"strings"
)

// Text returns the response content as trimmed plain text. Providers put
// raw text into Content when no schema was requested; a content value that
// is itself a JSON string literal is unquoted.
func Text(resp *Response) string {
	if resp == nil || len(resp.Content) == 0 {
		return ""
	}
	raw := strings.TrimSpace(string(resp.Content))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return raw
}
