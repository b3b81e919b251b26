package llm

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider speaks Chat Completions. OpenRouter and other
// compatible gateways reuse it through BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(conf), model: resolveModel(cfg.Model, openaiModels)}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chat, err := p.chatRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("openai: reply has no choices")}
	}

	first := resp.Choices[0]
	stop := "end"
	if first.FinishReason == openai.FinishReasonLength {
		stop = "max_tokens"
	}
	content, err := finish(req, openaiText(first.Message), stop)
	if err != nil {
		return nil, err
	}

	u := resp.Usage
	return &Response{
		Content:    content,
		Usage:      Usage{InputTokens: u.PromptTokens, OutputTokens: u.CompletionTokens, TotalTokens: u.TotalTokens},
		Model:      cmp.Or(resp.Model, p.model),
		StopReason: stop,
	}, nil
}

func (p *OpenAIProvider) ModelID() string { return p.model }

// chatRequest turns a Request into a Chat Completions body. A schema
// becomes a strict json_schema response format.
func (p *OpenAIProvider) chatRequest(req Request) (openai.ChatCompletionRequest, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            msgs,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if s := req.Schema; s != nil {
		raw, err := json.Marshal(s.Definition)
		if err != nil {
			return chat, fmt.Errorf("openai: encode schema %s: %w", s.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type:       openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{Name: s.Name, Schema: json.RawMessage(raw), Strict: true},
		}
	}
	return chat, nil
}

// openaiText uses the flat content when present, else the text parts.
func openaiText(msg openai.ChatCompletionMessage) ResponseText {
	if s := strings.TrimSpace(msg.Content); s != "" {
		return ResponseText{Flat: s}
	}
	var text ResponseText
	for _, part := range msg.MultiContent {
		if part.Type == openai.ChatMessagePartTypeText {
			if s := strings.TrimSpace(part.Text); s != "" {
				text.Blocks = append(text.Blocks, s)
			}
		}
	}
	return text
}

func mapOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
