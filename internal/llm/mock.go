package llm

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MockResponse is a canned response for the MockProvider. Text is a
// shorthand for plain-text Content.
type MockResponse struct {
	Content json.RawMessage
	Text    string
	Usage   Usage
	Err     error

	// Delay holds the response back. A context that ends first wins.
	Delay time.Duration
}

// MockProvider is a deterministic Provider for tests and the "mock"
// provider setting. It returns canned responses in FIFO order and records
// every request. With Echo set, an empty queue answers plain requests by
// repeating the last user turn, which is enough to click through the app
// without an API key.
type MockProvider struct {
	Echo bool

	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response. Once the queue is empty it
// echoes or fails with ErrProviderUnavailable.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		m.mu.Unlock()
		if m.Echo && req.Schema == nil {
			return echo(req), nil
		}
		return nil, &ErrProviderUnavailable{}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if resp.Delay > 0 {
		timer := time.NewTimer(resp.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}

	content := resp.Content
	if content == nil && resp.Text != "" {
		content = json.RawMessage(resp.Text)
	}
	return &Response{
		Content:    content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

func echo(req Request) *Response {
	heard := "…"
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			heard = req.Messages[i].Content
			break
		}
	}
	return &Response{
		Content:    json.RawMessage("(mock) You said: " + heard),
		Model:      "mock",
		StopReason: "end",
	}
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastRequest returns the most recent request, if any.
func (m *MockProvider) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
