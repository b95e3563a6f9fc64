package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const CohereEndpoint = "https://api.cohere.ai/v1/chat"

type cohereHistoryEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type cohereProbeBody struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

type cohereQueryBody struct {
	Message     string               `json:"message"`
	Model       string               `json:"model"`
	ChatHistory []cohereHistoryEntry `json:"chat_history"`
	Temperature float64              `json:"temperature"`
}

type cohereResponse struct {
	Text *string `json:"text"`
}

// CohereProvider talks to Cohere's v1 chat API, which uses a flat message/model/history
// body and returns the answer in a top-level "text" field.
type CohereProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewCohereProvider(apiKey string, client *http.Client) *CohereProvider {
	return &CohereProvider{endpoint: CohereEndpoint, apiKey: apiKey, client: client}
}

func (p *CohereProvider) WithEndpoint(endpoint string) *CohereProvider {
	p.endpoint = endpoint
	return p
}

func (p *CohereProvider) Name() ProviderName { return ProviderCohere }

func (p *CohereProvider) Probe(ctx context.Context, model string) error {
	status, _, err := postJSON(ctx, p.client, p.endpoint, p.apiKey, cohereProbeBody{
		Message: probePrompt,
		Model:   model,
	})
	if err != nil {
		return &ProviderError{Provider: ProviderCohere, Model: model, Kind: FailureTransport, Err: err}
	}
	if status != http.StatusOK {
		return &ProviderError{Provider: ProviderCohere, Model: model, Kind: FailureStatus, Status: status}
	}
	return nil
}

func (p *CohereProvider) Query(ctx context.Context, model string, q Query) Result {
	body := cohereQueryBody{
		Message: q.Message,
		Model:   model,
		ChatHistory: []cohereHistoryEntry{
			{Role: "system", Message: fmt.Sprintf("User: %s. Be helpful and conversational.", q.DisplayName)},
		},
		Temperature: queryTemp,
	}

	status, data, err := postJSON(ctx, p.client, p.endpoint, p.apiKey, body)
	if err != nil {
		return Failure(&ProviderError{Provider: ProviderCohere, Model: model, Kind: FailureTransport, Err: err})
	}
	if status != http.StatusOK {
		return Failure(&ProviderError{Provider: ProviderCohere, Model: model, Kind: FailureStatus, Status: status})
	}

	var out cohereResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return Failure(&ProviderError{Provider: ProviderCohere, Model: model, Kind: FailureDecode, Err: err})
	}
	if out.Text == nil {
		return Failure(&ProviderError{Provider: ProviderCohere, Model: model, Kind: FailureDecode, Err: fmt.Errorf("missing text")})
	}
	if *out.Text == "" {
		return Failure(&ProviderError{Provider: ProviderCohere, Model: model, Kind: FailureEmpty})
	}
	return Success(*out.Text)
}
