// Package vocab looks up romaji and English glosses for Japanese terms
// through the text-completion provider.
package vocab

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/logger"
)

const (
	// MaxBatch is the most terms sent in one enrichment request.
	MaxBatch = 12

	// Purpose labels enrichment requests in the LLM event log.
	Purpose = "vocab"

	defaultTimeout = 30 * time.Second
)

const systemPrompt = `Return ONLY valid JSON array. Each item must be {"term":"...","romaji":"...","english":"..."}. Keep english short.`

// Item is the metadata returned for one term.
type Item struct {
	Term    string `json:"term"`
	Romaji  string `json:"romaji"`
	English string `json:"english"`
}

// Enricher fills in romaji and English for terms. Implementations never
// fail the caller: any problem yields an empty result.
type Enricher interface {
	Enrich(ctx context.Context, terms []string) []Item
}

// Service is the provider-backed Enricher.
type Service struct {
	provider llm.Provider
	log      *logger.Logger
	timeout  time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithTimeout bounds each enrichment call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService creates an enrichment service on top of provider.
func NewService(provider llm.Provider, opts ...Option) *Service {
	s := &Service{provider: provider, log: logger.Nop(), timeout: defaultTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Enrich returns metadata for up to MaxBatch of the given terms. Failures
// are logged and produce an empty slice.
func (s *Service) Enrich(ctx context.Context, terms []string) []Item {
	items, err := s.enrich(ctx, terms)
	if err != nil {
		s.log.Warn("vocab enrichment failed", "terms", len(terms), "error", err)
		return []Item{}
	}
	return items
}

func (s *Service) enrich(ctx context.Context, terms []string) ([]Item, error) {
	batch := Batch(terms)
	if len(batch) == 0 {
		return []Item{}, nil
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, Purpose), s.timeout)
	defer cancel()

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: "Create romaji and english for these Japanese terms: " + strings.Join(batch, ", "),
		}},
		MaxTokens:   600,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	items, err := ParseItems(llm.Text(resp))
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Batch trims terms, drops blanks and duplicates, and caps the result at
// MaxBatch.
func Batch(terms []string) []string {
	out := make([]string, 0, min(len(terms), MaxBatch))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == MaxBatch {
			break
		}
	}
	return out
}

// Nop is an Enricher that never returns metadata.
type Nop struct{}

func (Nop) Enrich(context.Context, []string) []Item { return []Item{} }
