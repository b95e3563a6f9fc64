package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiModel is the part of *genai.GenerativeModel the provider uses.
type geminiModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type geminiModelFactory func(name string, maxTokens int32, system string) geminiModel

type GeminiProvider struct {
	client   *genai.Client
	newModel geminiModelFactory
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		newModel: func(name string, maxTokens int32, system string) geminiModel {
			model := client.GenerativeModel(name)
			model.SetMaxOutputTokens(maxTokens)
			model.SetTemperature(queryTemp)
			if system != "" {
				model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
			}
			return model
		},
	}, nil
}

func (p *GeminiProvider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

func (p *GeminiProvider) Name() ProviderName { return ProviderGemini }

func (p *GeminiProvider) Probe(ctx context.Context, model string) error {
	_, err := p.newModel(model, probeMaxTokens, "").GenerateContent(ctx, genai.Text(probePrompt))
	if err != nil {
		return &ProviderError{Provider: ProviderGemini, Model: model, Kind: FailureTransport, Err: err}
	}
	return nil
}

func (p *GeminiProvider) Query(ctx context.Context, model string, q Query) Result {
	system := fmt.Sprintf("You are Vignan AI Assistant. User: %s. Be helpful and conversational.", q.DisplayName)

	resp, err := p.newModel(model, queryMaxTokens, system).GenerateContent(ctx, genai.Text(q.Message))
	if err != nil {
		return Failure(&ProviderError{Provider: ProviderGemini, Model: model, Kind: FailureTransport, Err: err})
	}
	if resp == nil {
		return Failure(&ProviderError{Provider: ProviderGemini, Model: model, Kind: FailureDecode, Err: fmt.Errorf("nil response")})
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return Failure(&ProviderError{Provider: ProviderGemini, Model: model, Kind: FailureEmpty})
	}
	return Success(text)
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
