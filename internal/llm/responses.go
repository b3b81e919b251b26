package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultResponsesBaseURL = "https://api.openai.com/v1"

// ResponsesProvider implements Provider against the OpenAI Responses API
// (POST /responses). go-openai only wraps Chat Completions, so requests are
// made with net/http.
type ResponsesProvider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewResponsesProvider creates a new Responses API provider.
func NewResponsesProvider(cfg ResponsesConfig) (*ResponsesProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultResponsesBaseURL
	}
	return &ResponsesProvider{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      resolveModel(cfg.Model, openaiModels),
	}, nil
}

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model           string           `json:"model"`
	Input           []responsesInput `json:"input"`
	MaxOutputTokens int              `json:"max_output_tokens,omitempty"`
	Temperature     *float64         `json:"temperature,omitempty"`
	Text            *responsesFormat `json:"text,omitempty"`
}

type responsesFormat struct {
	Format map[string]any `json:"format"`
}

type responsesPayload struct {
	Model      string `json:"model"`
	Status     string `json:"status"`
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	IncompleteDetails *struct {
		Reason string `json:"reason"`
	} `json:"incomplete_details"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// ResponseText is the assistant text of a Responses payload. Providers
// return it either as the flat output_text convenience field or as typed
// content blocks; exactly one form is set.
type ResponseText struct {
	Flat   string
	Blocks []string
}

// String joins the text into a single trimmed string. Blocks are separated
// by a blank line.
func (t ResponseText) String() string {
	if t.Flat != "" {
		return t.Flat
	}
	return strings.TrimSpace(strings.Join(t.Blocks, "\n\n"))
}

// responseText normalises a payload. A non-blank output_text wins;
// otherwise every non-blank "output_text" or "text" content part is
// collected in order.
func (p responsesPayload) responseText() ResponseText {
	if flat := strings.TrimSpace(p.OutputText); flat != "" {
		return ResponseText{Flat: flat}
	}
	var blocks []string
	for _, item := range p.Output {
		for _, part := range item.Content {
			if part.Type != "output_text" && part.Type != "text" {
				continue
			}
			if s := strings.TrimSpace(part.Text); s != "" {
				blocks = append(blocks, s)
			}
		}
	}
	return ResponseText{Blocks: blocks}
}

func (p *ResponsesProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body := responsesRequest{
		Model:           p.model,
		Input:           buildResponsesInput(req),
		MaxOutputTokens: req.MaxTokens,
	}
	if req.Temperature > 0 {
		t := req.Temperature
		body.Temperature = &t
	}
	if req.Schema != nil {
		body.Text = &responsesFormat{Format: map[string]any{
			"type":   "json_schema",
			"name":   req.Schema.Name,
			"schema": req.Schema.Definition,
			"strict": true,
		}}
	}

	payload, err := p.do(ctx, body)
	if err != nil {
		return nil, err
	}

	stop := mapResponsesStopReason(payload)
	content, err := finish(req, payload.responseText(), stop)
	if err != nil {
		return nil, err
	}

	model := payload.Model
	if model == "" {
		model = p.model
	}

	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  payload.Usage.InputTokens,
			OutputTokens: payload.Usage.OutputTokens,
			TotalTokens:  payload.Usage.TotalTokens,
		},
		Model:      model,
		StopReason: stop,
	}, nil
}

func (p *ResponsesProvider) ModelID() string {
	return p.model
}

func (p *ResponsesProvider) do(ctx context.Context, body responsesRequest) (*responsesPayload, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/responses", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapResponsesError(resp, raw)
	}

	var payload responsesPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("decode responses payload: %w", err)}
	}
	return &payload, nil
}

func buildResponsesInput(req Request) []responsesInput {
	var input []responsesInput
	if req.System != "" {
		input = append(input, responsesInput{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "assistant"
		}
		input = append(input, responsesInput{Role: role, Content: m.Content})
	}
	return input
}

func mapResponsesStopReason(p *responsesPayload) string {
	if p.Status == "incomplete" && p.IncompleteDetails != nil && p.IncompleteDetails.Reason == "max_output_tokens" {
		return "max_tokens"
	}
	return "end"
}

func mapResponsesError(resp *http.Response, raw []byte) error {
	err := fmt.Errorf("openai responses http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	if resp.StatusCode == http.StatusTooManyRequests {
		return &ErrRateLimit{RetryAfter: retryAfter(resp), Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
