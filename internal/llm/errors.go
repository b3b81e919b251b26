package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit is an HTTP 429 from the provider. RetryAfter is zero when
// the provider gave no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	msg := "llm: rate limited"
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(", retry in %s", e.RetryAfter)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means a structured reply was not JSON or broke its
// schema. Content holds what came back.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string { return "llm: invalid structured reply: " + e.Err.Error() }
func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers transport failures and 5xx answers.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm: provider unavailable"
	}
	return "llm: provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means a structured reply hit MaxTokens and was cut
// off. Plain chat text that hits the limit is returned, not failed.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string { return "llm: structured reply cut off at max tokens" }

// Transient reports whether repeating the call could succeed. Cancelled
// calls and truncated replies are final.
func Transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var cut *ErrMaxTokensExceeded
	return !errors.As(err, &cut)
}
