package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// ProviderBuilder creates the client for a candidate that has a credential.
type ProviderBuilder func(ctx context.Context, c Candidate) (Provider, error)

// Prober picks the single active provider at startup.
type Prober struct {
	build   ProviderBuilder
	timeout time.Duration
}

func NewProber(build ProviderBuilder, timeout time.Duration) *Prober {
	return &Prober{build: build, timeout: timeout}
}

// SelectProvider walks candidates and their models in the given order and returns the first
// pair whose probe succeeds. Candidates without a credential are skipped. NoProvider is
// returned when nothing answers.
func (p *Prober) SelectProvider(ctx context.Context, candidates []Candidate) ActiveProvider {
	for _, c := range candidates {
		if !c.HasCredential() {
			continue
		}

		provider, err := p.build(ctx, c)
		if err != nil {
			log.Printf("[prober] %s: client setup failed: %v", c.Name, err)
			continue
		}

		for _, model := range c.Models {
			if err := p.probe(ctx, provider, model); err != nil {
				log.Printf("[prober] %s/%s unavailable: %v", c.Name, model, err)
				continue
			}
			log.Printf("[prober] %s/%s is live", c.Name, model)
			return ActiveProvider{Name: c.Name, Model: model, Provider: provider}
		}

		if closer, ok := provider.(interface{ Close() }); ok {
			closer.Close()
		}
	}
	return NoProvider
}

// NewProviderBuilder returns the builder used in production: HTTP providers share client,
// Gemini goes through the genai SDK.
func NewProviderBuilder(client *http.Client) ProviderBuilder {
	return func(ctx context.Context, c Candidate) (Provider, error) {
		switch c.Name {
		case ProviderGroq:
			return NewGroqProvider(c.Credential, client), nil
		case ProviderOpenAI:
			return NewOpenAIProvider(c.Credential, client), nil
		case ProviderCohere:
			return NewCohereProvider(c.Credential, client), nil
		case ProviderGemini:
			p, err := NewGeminiProvider(ctx, c.Credential)
			if err != nil {
				return nil, err
			}
			return p, nil
		default:
			return nil, fmt.Errorf("unknown provider %q", c.Name)
		}
	}
}

func (p *Prober) probe(ctx context.Context, provider Provider, model string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return provider.Probe(ctx, model)
}
