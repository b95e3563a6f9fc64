package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	GroqEndpoint   = "https://api.groq.com/openai/v1/chat/completions"
	OpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

	probePrompt    = "Say hello"
	probeMaxTokens = 10
	queryMaxTokens = 500
	queryTemp      = 0.7
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatProbeBody struct {
	Messages  []chatMessage `json:"messages"`
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
}

type chatQueryBody struct {
	Messages    []chatMessage `json:"messages"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletionsProvider talks to an OpenAI-style /chat/completions endpoint.
// Groq and OpenAI differ only in endpoint and system prompt.
type ChatCompletionsProvider struct {
	name         ProviderName
	endpoint     string
	apiKey       string
	systemPrompt func(displayName string) string
	client       *http.Client
}

func NewGroqProvider(apiKey string, client *http.Client) *ChatCompletionsProvider {
	return &ChatCompletionsProvider{
		name:     ProviderGroq,
		endpoint: GroqEndpoint,
		apiKey:   apiKey,
		systemPrompt: func(name string) string {
			return fmt.Sprintf("You are Vignan AI Assistant. Be conversational and helpful.\nUser: %s. Answer naturally and use emojis occasionally.", name)
		},
		client: client,
	}
}

func NewOpenAIProvider(apiKey string, client *http.Client) *ChatCompletionsProvider {
	return &ChatCompletionsProvider{
		name:     ProviderOpenAI,
		endpoint: OpenAIEndpoint,
		apiKey:   apiKey,
		systemPrompt: func(name string) string {
			return fmt.Sprintf("You are a helpful AI assistant. User: %s. Be conversational.", name)
		},
		client: client,
	}
}

// WithEndpoint overrides the API URL (proxies, tests).
func (p *ChatCompletionsProvider) WithEndpoint(endpoint string) *ChatCompletionsProvider {
	p.endpoint = endpoint
	return p
}

func (p *ChatCompletionsProvider) Name() ProviderName { return p.name }

func (p *ChatCompletionsProvider) Probe(ctx context.Context, model string) error {
	body := chatProbeBody{
		Messages:  []chatMessage{{Role: "user", Content: probePrompt}},
		Model:     model,
		MaxTokens: probeMaxTokens,
	}

	status, _, err := postJSON(ctx, p.client, p.endpoint, p.apiKey, body)
	if err != nil {
		return &ProviderError{Provider: p.name, Model: model, Kind: FailureTransport, Err: err}
	}
	if status != http.StatusOK {
		return &ProviderError{Provider: p.name, Model: model, Kind: FailureStatus, Status: status}
	}
	return nil
}

func (p *ChatCompletionsProvider) Query(ctx context.Context, model string, q Query) Result {
	body := chatQueryBody{
		Messages: []chatMessage{
			{Role: "system", Content: p.systemPrompt(q.DisplayName)},
			{Role: "user", Content: q.Message},
		},
		Model:       model,
		Temperature: queryTemp,
		MaxTokens:   queryMaxTokens,
	}

	status, data, err := postJSON(ctx, p.client, p.endpoint, p.apiKey, body)
	if err != nil {
		return Failure(&ProviderError{Provider: p.name, Model: model, Kind: FailureTransport, Err: err})
	}
	if status != http.StatusOK {
		return Failure(&ProviderError{Provider: p.name, Model: model, Kind: FailureStatus, Status: status})
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return Failure(&ProviderError{Provider: p.name, Model: model, Kind: FailureDecode, Err: err})
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == nil {
		return Failure(&ProviderError{Provider: p.name, Model: model, Kind: FailureDecode, Err: fmt.Errorf("missing choices[0].message.content")})
	}

	text := *out.Choices[0].Message.Content
	if text == "" {
		return Failure(&ProviderError{Provider: p.name, Model: model, Kind: FailureEmpty})
	}
	return Success(text)
}
