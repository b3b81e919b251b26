package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config selects a provider and carries the settings of every provider,
// so switching SENSEI_LLM_PROVIDER needs no other change.
type Config struct {
	// Provider is one of Names().
	Provider string

	Responses  ResponsesConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one tutor, vocabulary or lesson call, retries included.
	Timeout time.Duration
}

// ResponsesConfig is for the OpenAI Responses API, the default provider.
type ResponsesConfig struct {
	APIKey  string
	Model   string
	BaseURL string // empty means api.openai.com
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig is for Chat Completions, including compatible servers
// reached through BaseURL.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig shapes the exponential backoff of WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "responses",
		Responses:  ResponsesConfig{Model: "gpt-4o-mini"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry:      RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 10 * time.Second, Multiplier: 2},
		Timeout:    30 * time.Second,
	}
}

// binding ties a provider to its key field and the SENSEI_ variable that
// fills it.
type binding struct {
	key *string
	env string
}

func (c *Config) binding(provider string) (binding, bool) {
	switch provider {
	case "responses":
		return binding{&c.Responses.APIKey, "SENSEI_OPENAI_API_KEY"}, true
	case "openai":
		return binding{&c.OpenAI.APIKey, "SENSEI_OPENAI_API_KEY"}, true
	case "anthropic":
		return binding{&c.Anthropic.APIKey, "SENSEI_ANTHROPIC_API_KEY"}, true
	case "gemini":
		return binding{&c.Gemini.APIKey, "SENSEI_GEMINI_API_KEY"}, true
	case "openrouter":
		return binding{&c.OpenRouter.APIKey, "SENSEI_OPENROUTER_API_KEY"}, true
	}
	return binding{}, false
}

// ConfigFromEnv reads SENSEI_* variables over DefaultConfig. The OpenAI
// key, model and base URL serve both OpenAI providers.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	envString(&cfg.Provider, "SENSEI_LLM_PROVIDER")

	for _, name := range []string{"responses", "openai", "anthropic", "gemini", "openrouter"} {
		b, _ := cfg.binding(name)
		envString(b.key, b.env)
	}
	for _, dst := range []*string{&cfg.Responses.Model, &cfg.OpenAI.Model} {
		envString(dst, "SENSEI_OPENAI_MODEL")
	}
	for _, dst := range []*string{&cfg.Responses.BaseURL, &cfg.OpenAI.BaseURL} {
		envString(dst, "SENSEI_OPENAI_BASE_URL")
	}
	envString(&cfg.Anthropic.Model, "SENSEI_ANTHROPIC_MODEL")
	envString(&cfg.Gemini.Model, "SENSEI_GEMINI_MODEL")
	envString(&cfg.OpenRouter.Model, "SENSEI_OPENROUTER_MODEL")

	if d, err := time.ParseDuration(os.Getenv("SENSEI_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	if n, err := strconv.Atoi(os.Getenv("SENSEI_LLM_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	return cfg
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// discovery is the order in which vendor-standard key variables are tried
// when nothing SENSEI_-specific is set.
var discovery = []struct {
	env      string
	provider string
}{
	{"OPENAI_API_KEY", "responses"},
	{"GEMINI_API_KEY", "gemini"},
	{"ANTHROPIC_API_KEY", "anthropic"},
	{"OPENROUTER_API_KEY", "openrouter"},
}

// DiscoverConfig picks the first provider whose standard key variable is
// set (OPENAI_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY,
// OPENROUTER_API_KEY). OPENAI_MODEL is honoured with the OpenAI key.
func DiscoverConfig() (Config, bool) {
	for _, d := range discovery {
		k := os.Getenv(d.env)
		if k == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = d.provider
		b, _ := cfg.binding(d.provider)
		*b.key = k
		if d.provider == "responses" {
			envString(&cfg.Responses.Model, "OPENAI_MODEL")
		}
		return cfg, true
	}
	return Config{}, false
}

// Validate checks the provider name and that it has an API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	b, ok := c.binding(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if *b.key == "" {
		return fmt.Errorf("%s is required for the %s provider", b.env, c.Provider)
	}
	return nil
}
