package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // id > After
	Purpose string    // LLM events only; empty = any
	UserID  string    // XP events only; empty = any
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// KVRepo is a string-keyed blob table. The progress package persists one
// JSON document per user through it.
type KVRepo interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set creates or replaces the value at key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// XPEventData records a single XP award.
type XPEventData struct {
	UserID    string
	SessionID string
	Reason    string
	Amount    int
}

// XPEventRecord is a stored XP award.
type XPEventRecord struct {
	ID        int64
	Timestamp time.Time
	XPEventData
}

// XPTotal sums awards for one reason.
type XPTotal struct {
	Reason string
	Count  int
	Amount int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)
	// GetLLMEvent returns nil when no event has the given id.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
	// PruneLLMEvents deletes events created before cutoff.
	PruneLLMEvents(ctx context.Context, cutoff time.Time) (int64, error)

	AppendXPEvent(ctx context.Context, data XPEventData) error
	QueryXPEvents(ctx context.Context, opts QueryOpts) ([]XPEventRecord, error)
	XPTotalsByReason(ctx context.Context, userID string) ([]XPTotal, error)
	// DeleteXPEvents removes a user's award history.
	DeleteXPEvents(ctx context.Context, userID string) error
}
