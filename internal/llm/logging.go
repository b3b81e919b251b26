package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/sensei/internal/logger"
	"github.com/abhisek/sensei/internal/store"
)

// LoggingProvider records each call as an llm_request event and a log
// line. Recording problems are logged and never fail the call.
type LoggingProvider struct {
	inner Provider
	name  string
	repo  store.EventRepo
	log   *logger.Logger
}

// WithLogging wraps p. repo and log may each be nil.
func WithLogging(p Provider, repo store.EventRepo, log *logger.Logger) Provider {
	return withLogging(p, p.ModelID(), repo, log)
}

func withLogging(p Provider, name string, repo store.EventRepo, log *logger.Logger) *LoggingProvider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, name: name, repo: repo, log: log.With("component", "llm", "provider", name)}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}

	fields := []any{"purpose", ev.Purpose, "model", ev.Model, "latency_ms", ev.LatencyMs}
	if err != nil {
		ev.ErrorMessage = err.Error()
		l.log.Warn("llm call failed", append(fields, "error", err)...)
	} else {
		l.log.Debug("llm call", append(fields, "input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens)...)
	}

	if l.repo != nil {
		if rerr := l.repo.AppendLLMRequest(ctx, ev); rerr != nil {
			l.log.Warn("could not record llm call", "error", rerr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// transcript renders a request the way `sensei llm view` shows it: one
// "[role]" block per turn, then the schema if any.
func transcript(req Request) string {
	var b strings.Builder
	block := func(tag, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", tag, body)
	}
	if req.System != "" {
		block("system", req.System)
	}
	for _, m := range req.Messages {
		block(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			block("schema: "+req.Schema.Name, string(def))
		}
	}
	return b.String()
}
