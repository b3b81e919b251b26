// Package tutor sends chat turns to the text-completion provider.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/llm"
)

const (
	// Fallback replaces an empty reply.
	Fallback = "Let's keep practicing!"

	// Purpose labels tutor requests in the LLM event log.
	Purpose = "tutor"

	// MaxHistory is the number of prior turns replayed to the provider.
	MaxHistory = 20
)

// ErrEmptyMessage is returned when the learner's message is blank.
var ErrEmptyMessage = errors.New("tutor: empty message")

// Config holds tutor request settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns sensible defaults for tutor chat.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   500,
		Temperature: 0.4,
		Timeout:     30 * time.Second,
	}
}

// Driver turns a transcript into a tutor reply.
type Driver struct {
	provider llm.Provider
	cfg      Config
}

// NewDriver creates a driver.
func NewDriver(provider llm.Provider, cfg Config) *Driver {
	return &Driver{provider: provider, cfg: cfg}
}

// Reply sends the recent history plus message under mode's instructions
// and returns the reply text. A reply with no text becomes Fallback.
// Provider failures are returned to the caller.
func (d *Driver) Reply(ctx context.Context, mode lessons.Mode, history []llm.Message, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}
	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	ctx = llm.WithPurpose(ctx, Purpose)
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	resp, err := d.provider.Generate(ctx, llm.Request{
		System:      lessons.SystemPrompt(mode),
		Messages:    msgs,
		MaxTokens:   d.cfg.MaxTokens,
		Temperature: d.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("tutor reply: %w", err)
	}

	if text := llm.Text(resp); text != "" {
		return text, nil
	}
	return Fallback, nil
}
