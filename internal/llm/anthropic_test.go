package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messagesRequest struct {
	System   []map[string]any `json:"system"`
	Messages []struct {
		Role string `json:"role"`
	} `json:"messages"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
}

func messagesReply(stop string, texts ...string) map[string]any {
	blocks := make([]map[string]any, len(texts))
	for i, s := range texts {
		blocks[i] = map[string]any{"type": "text", "text": s}
	}
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     blocks,
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 5, "output_tokens": 7},
	}
}

func fakeMessages(t *testing.T, status int, header http.Header, body any, seen *messagesRequest) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return newAnthropicProvider("claude-haiku-4-5-20251001", option.WithAPIKey("test-key"), option.WithBaseURL(srv.URL))
}

func TestAnthropicProvider_FoldsStarterTurn(t *testing.T) {
	var seen messagesRequest
	p := fakeMessages(t, http.StatusOK, nil, messagesReply("max_tokens", " ねこ is cat! ", "Try saying it."), &seen)

	resp, err := p.Generate(context.Background(), Request{
		System: "You are Sensei.",
		Messages: []Message{
			{Role: RoleAssistant, Content: "Konnichiwa! What animal do you like?"},
			{Role: RoleUser, Content: "cats"},
		},
		Temperature: 0.7,
	})
	require.NoError(t, err)

	assert.Equal(t, "ねこ is cat!\n\nTry saying it.", Text(resp))
	assert.Equal(t, "max_tokens", resp.StopReason)
	assert.Equal(t, 12, resp.Usage.TotalTokens)

	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
	require.Len(t, seen.System, 1)
	assert.Contains(t, seen.System[0]["text"], "Konnichiwa!")
	assert.Equal(t, defaultMaxTokens, seen.MaxTokens)
	require.NotNil(t, seen.Temperature)
	assert.InDelta(t, 0.7, *seen.Temperature, 1e-9)
}

func TestAnthropicProvider_StructuredReply(t *testing.T) {
	p := fakeMessages(t, http.StatusOK, nil, messagesReply("end_turn", "```json\n{\"name\":\"Yui\",\"age\":8}\n```"), nil)

	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, Schema: testSchema(), MaxTokens: 64})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Yui","age":8}`, string(resp.Content))
	assert.Equal(t, "end", resp.StopReason)
}

func TestAnthropicProvider_Errors(t *testing.T) {
	apiErr := map[string]any{"type": "error", "error": map[string]any{"type": "api_error", "message": "nope"}}

	t.Run("rate limit", func(t *testing.T) {
		p := fakeMessages(t, http.StatusTooManyRequests, http.Header{"Retry-After": {"3"}}, apiErr, nil)
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		var rl *ErrRateLimit
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, 3*time.Second, rl.RetryAfter)
	})

	t.Run("server error", func(t *testing.T) {
		p := fakeMessages(t, http.StatusInternalServerError, nil, apiErr, nil)
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})
}

func TestAnthropicProvider_NoUserTurn(t *testing.T) {
	p := &AnthropicProvider{model: "claude-haiku-4-5-20251001"}
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleAssistant, Content: "hi"}}})
	assert.ErrorContains(t, err, "no user turn")
}

func TestAnthropicModels(t *testing.T) {
	for alias, want := range map[string]string{
		"claude-sonnet":            "claude-sonnet-4-20250514",
		"claude-haiku":             "claude-haiku-4-5-20251001",
		"claude-sonnet-4-20250514": "claude-sonnet-4-20250514",
	} {
		assert.Equal(t, want, resolveModel(alias, anthropicModels), alias)
	}

	_, err := NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-sonnet"})
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", p.ModelID())
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", 0},
		{"5", 5 * time.Second},
		{"-1", 0},
		{"Wed, 21 Oct 2026 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		resp := &http.Response{Header: http.Header{}}
		if tt.header != "" {
			resp.Header.Set("Retry-After", tt.header)
		}
		assert.Equal(t, tt.want, retryAfter(resp), tt.header)
	}
	assert.Zero(t, retryAfter(nil))
}
