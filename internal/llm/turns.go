package llm

import (
	"encoding/json"
	"strings"
)

// defaultMaxTokens is sent to APIs that require a limit when the request
// leaves MaxTokens unset.
const defaultMaxTokens = 1024

// alternate reshapes a transcript for APIs that require the conversation
// to open with a user turn and then alternate roles. Chat transcripts
// open with the tutor's starter line, so leading assistant turns are
// moved into the system prompt. Blank turns are dropped and consecutive
// turns from one role are joined with a blank line.
func alternate(system string, msgs []Message) (string, []Message) {
	var out []Message
	var opening []string
	for _, m := range msgs {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		role := RoleUser
		if m.Role == RoleAssistant {
			role = RoleAssistant
		}
		if len(out) == 0 && role == RoleAssistant {
			opening = append(opening, text)
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + text
			continue
		}
		out = append(out, Message{Role: role, Content: text})
	}

	if len(opening) > 0 {
		note := "You opened this conversation by saying:\n" + strings.Join(opening, "\n\n")
		if system == "" {
			system = note
		} else {
			system += "\n\n" + note
		}
	}
	return system, out
}

// finish turns reply text into response content. Schema requests must
// produce complete JSON that validates; plain requests pass any text
// through, blank included, and callers decide what a blank reply means.
func finish(req Request, text ResponseText, stopReason string) (json.RawMessage, error) {
	content := json.RawMessage(text.String())
	if req.Schema == nil {
		return content, nil
	}
	if stopReason == "max_tokens" {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	return validateResponse(req.Schema, content)
}
