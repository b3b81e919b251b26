package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]any{"api_key", "sk-123", "user_id", "abc", "mode", "fun-chat", "dangling"})

	if got[1] != "[REDACTED]" {
		t.Errorf("api_key = %v, want redacted", got[1])
	}
	if s, ok := got[3].(string); !ok || !strings.HasPrefix(s, "hash:") || s == "hash:abc" {
		t.Errorf("user_id = %v, want hashed", got[3])
	}
	if got[5] != "fun-chat" {
		t.Errorf("mode = %v, want passthrough", got[5])
	}
	if got[6] != "dangling" {
		t.Errorf("trailing key dropped: %v", got)
	}
}

func TestHashValue_Stable(t *testing.T) {
	if hashValue("u1") != hashValue("u1") {
		t.Error("hash not stable")
	}
	if hashValue("u1") == hashValue("u2") {
		t.Error("distinct ids collide")
	}
	if hashValue("") != "" {
		t.Error("empty id should hash to empty")
	}
}

func TestLogger_RedactsThroughSink(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "test").Warn("enrich failed", "token", "abc.def.ghi")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["token"] != "[REDACTED]" {
		t.Errorf("token = %v, want redacted", fields["token"])
	}
	if fields["component"] != "test" {
		t.Errorf("component = %v", fields["component"])
	}
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "nop", "OFF"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.Info("hello", "mode", mode)
	}
}
