// Package llm talks to the hosted language models behind the tutor, the
// vocabulary enricher and the day lesson generator.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one reply per call.
type Provider interface {
	// Generate sends req and returns the reply. With a Schema the reply
	// Content is validated JSON; without one it is the reply text, which
	// may be blank.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request is one model call.
type Request struct {
	System string

	// Messages is the transcript, oldest first. Tutor chat replays the
	// recent history, which opens with the tutor's starter line;
	// vocabulary and lesson calls send a single user turn.
	Messages []Message

	// Schema asks for structured JSON output. Nil means plain text.
	Schema *Schema

	// MaxTokens caps the reply. Zero leaves the provider default.
	MaxTokens int

	// Temperature in [0, 1]. Zero is not sent.
	Temperature float64
}

// Message is one transcript turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema for structured output.
type Schema struct {
	// Name identifies the schema to the API and keys the compiled-schema
	// cache, so it must be unique per definition. Kebab-case.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a model reply.
type Response struct {
	// Content is validated JSON for schema requests and raw reply text
	// otherwise, so it is only JSON when a Schema was set. Use Text for
	// the trimmed plain text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request, as reported by the API.
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// MarshalJSON encodes a plain-text Content as a JSON string so a
// Response can always be marshalled.
func (r Response) MarshalJSON() ([]byte, error) {
	type response Response
	out := response(r)
	switch {
	case len(out.Content) == 0:
		out.Content = nil
	case !json.Valid(out.Content):
		quoted, err := json.Marshal(string(out.Content))
		if err != nil {
			return nil, err
		}
		out.Content = quoted
	}
	return json.Marshal(out)
}

// Usage is the token count of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
