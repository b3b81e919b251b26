package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver_Reply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("  ねこ means cat! Can you say ねこ?  ")})
	d := NewDriver(mock, DefaultConfig())

	history := []llm.Message{{Role: llm.RoleAssistant, Content: lessons.ModeTraining5.Starter()}}
	reply, err := d.Reply(context.Background(), lessons.ModeTraining5, history, "  how do I say cat? ")
	require.NoError(t, err)
	assert.Equal(t, "ねこ means cat! Can you say ねこ?", reply)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, lessons.SystemPrompt(lessons.ModeTraining5), req.System)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleAssistant, req.Messages[0].Role)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "how do I say cat?"}, req.Messages[1])
}

func TestDriver_EmptyReplyFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`"   "`)})
	reply, err := NewDriver(mock, DefaultConfig()).Reply(context.Background(), lessons.ModeFunChat, nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, Fallback, reply)
}

func TestDriver_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{RetryAfter: time.Second}})
	_, err := NewDriver(mock, DefaultConfig()).Reply(context.Background(), lessons.ModeFunChat, nil, "hi")
	var rl *llm.ErrRateLimit
	assert.True(t, errors.As(err, &rl))
}

func TestDriver_EmptyMessage(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := NewDriver(mock, DefaultConfig()).Reply(context.Background(), lessons.ModeFunChat, nil, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Zero(t, mock.CallCount())
}

func TestDriver_TrimsHistory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("ok")})
	var history []llm.Message
	for i := 0; i < MaxHistory+7; i++ {
		history = append(history, llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	_, err := NewDriver(mock, DefaultConfig()).Reply(context.Background(), lessons.ModeFunChat, history, "latest")
	require.NoError(t, err)

	msgs := mock.Calls[0].Messages
	require.Len(t, msgs, MaxHistory+1)
	assert.Equal(t, "m7", msgs[0].Content)
	assert.Equal(t, "latest", msgs[len(msgs)-1].Content)
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestDriver_Timeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	_, err := NewDriver(blockingProvider{}, cfg).Reply(context.Background(), lessons.ModeFunChat, nil, "hello?")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
