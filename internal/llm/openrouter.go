package llm

import (
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// openRouterTitle and openRouterReferer identify the app on
	// OpenRouter's usage dashboard.
	openRouterTitle   = "Sensei"
	openRouterReferer = "https://github.com/abhisek/sensei"
)

// OpenRouterProvider talks to OpenRouter's OpenAI-compatible API. Model
// names such as "anthropic/claude-3-haiku" are passed through unchanged.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = baseURL
	config.HTTPClient = &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}

	return &OpenRouterProvider{OpenAIProvider: &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}}, nil
}

// attributionTransport adds OpenRouter's app attribution headers.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Title", openRouterTitle)
	req.Header.Set("HTTP-Referer", openRouterReferer)
	return t.base.RoundTrip(req)
}
