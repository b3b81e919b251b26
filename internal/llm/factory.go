package llm

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/sensei/internal/logger"
	"github.com/abhisek/sensei/internal/store"
)

type builder func(ctx context.Context, cfg Config) (Provider, error)

func asProvider[P Provider](p P, err error) (Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

var builders = map[string]builder{
	"anthropic": func(_ context.Context, cfg Config) (Provider, error) {
		p, err := NewAnthropicProvider(cfg.Anthropic)
		return asProvider(p, err)
	},
	"openai": func(_ context.Context, cfg Config) (Provider, error) {
		p, err := NewOpenAIProvider(cfg.OpenAI)
		return asProvider(p, err)
	},
	"responses": func(_ context.Context, cfg Config) (Provider, error) {
		p, err := NewResponsesProvider(cfg.Responses)
		return asProvider(p, err)
	},
	"openrouter": func(_ context.Context, cfg Config) (Provider, error) {
		p, err := NewOpenRouterProvider(cfg.OpenRouter)
		return asProvider(p, err)
	},
	"gemini": func(ctx context.Context, cfg Config) (Provider, error) {
		p, err := NewGeminiProvider(ctx, cfg.Gemini)
		return asProvider(p, err)
	},
	"mock": func(context.Context, Config) (Provider, error) {
		return &MockProvider{Echo: true}, nil
	},
}

// Names lists the provider names NewProvider accepts.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewProvider builds the configured provider and stacks the decorators on
// it, outermost first: retry, then logging, then the API client. Every
// attempt is logged, retries included. repo may be nil.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, log *logger.Logger) (Provider, error) {
	build, ok := builders[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider %q (want one of %s)", cfg.Provider, strings.Join(Names(), ", "))
	}
	base, err := build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", cfg.Provider, err)
	}
	if cfg.Provider == "mock" {
		return base, nil
	}
	return WithRetry(withLogging(base, cfg.Provider, repo, log), cfg.Retry), nil
}
