package llm

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

var geminiModels = map[string]string{
	"gemini-flash":      "gemini-2.5-flash",
	"gemini-flash-lite": "gemini-2.5-flash-lite",
	"gemini-pro":        "gemini-2.5-pro",
}

// GeminiProvider talks to the Gemini API through the genai SDK.
type GeminiProvider struct {
	models *genai.Models
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiProvider{models: client.Models, model: resolveModel(cfg.Model, geminiModels)}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	system, turns := alternate(req.System, req.Messages)
	if len(turns) == 0 {
		return nil, fmt.Errorf("gemini: request has no user turn")
	}

	result, err := p.models.GenerateContent(ctx, p.model, geminiContents(turns), geminiConfig(system, req))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, mapGeminiError(err)
	}

	stop := geminiStop(result)
	content, err := finish(req, geminiText(result), stop)
	if err != nil {
		return nil, err
	}

	out := &Response{Content: content, Model: cmp.Or(result.ModelVersion, p.model), StopReason: stop}
	if u := result.UsageMetadata; u != nil {
		out.Usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return out, nil
}

func (p *GeminiProvider) ModelID() string { return p.model }

// geminiConfig hands a structured request's JSON Schema to the API as is;
// the service accepts the subset our schemas use.
func geminiConfig(system string, req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = req.Schema.Definition
	}
	return cfg
}

func geminiContents(turns []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns))
	for _, m := range turns {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Content, role))
	}
	return out
}

// geminiText reads the first candidate, skipping thought parts.
func geminiText(result *genai.GenerateContentResponse) ResponseText {
	var text ResponseText
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return text
	}
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if s := strings.TrimSpace(part.Text); s != "" {
			text.Blocks = append(text.Blocks, s)
		}
	}
	return text
}

func geminiStop(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return "max_tokens"
	}
	return "end"
}

func mapGeminiError(err error) error {
	// genai returns APIError by value.
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
