package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type ProviderName string

const (
	ProviderGroq   ProviderName = "groq"
	ProviderOpenAI ProviderName = "openai"
	ProviderCohere ProviderName = "cohere"
	ProviderGemini ProviderName = "gemini"
)

// Candidate is one provider the prober may try, with its models in preference order.
type Candidate struct {
	Name       ProviderName
	Models     []string
	Credential string
}

func (c Candidate) HasCredential() bool {
	return strings.TrimSpace(c.Credential) != ""
}

// DefaultCandidates returns the providers in priority order with their default model lists.
func DefaultCandidates(groqKey, openAIKey, cohereKey, geminiKey string) []Candidate {
	return []Candidate{
		{Name: ProviderGroq, Models: []string{"llama-3.1-8b-instant", "mixtral-8x7b-32768"}, Credential: groqKey},
		{Name: ProviderOpenAI, Models: []string{"gpt-3.5-turbo"}, Credential: openAIKey},
		{Name: ProviderCohere, Models: []string{"command", "command-r"}, Credential: cohereKey},
		{Name: ProviderGemini, Models: []string{"gemini-1.5-flash", "gemini-1.5-flash-8b"}, Credential: geminiKey},
	}
}

// Query is what a provider needs to answer one chat message.
type Query struct {
	Message     string
	Role        string
	DisplayName string
}

// Provider is a hosted language-model API.
type Provider interface {
	Name() ProviderName
	// Probe sends a minimal request; nil means the model answered with a success status.
	Probe(ctx context.Context, model string) error
	Query(ctx context.Context, model string, q Query) Result
}

// ActiveProvider is the (provider, model) pair chosen at startup. The zero value means
// no provider is active and every answer comes from the local responder.
type ActiveProvider struct {
	Name     ProviderName
	Model    string
	Provider Provider
}

var NoProvider = ActiveProvider{}

func (a ActiveProvider) IsNone() bool {
	return a.Provider == nil
}

func (a ActiveProvider) String() string {
	if a.IsNone() {
		return "local"
	}
	return fmt.Sprintf("%s/%s", a.Name, a.Model)
}

// Result is the outcome of one provider query: either Text or Err is set.
type Result struct {
	Text string
	Err  error
}

func Success(text string) Result { return Result{Text: text} }

func Failure(err error) Result { return Result{Err: err} }

func (r Result) OK() bool {
	return r.Err == nil && strings.TrimSpace(r.Text) != ""
}

type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureDecode    FailureKind = "decode"
	FailureEmpty     FailureKind = "empty"
	FailurePanic     FailureKind = "panic"
)

type ProviderError struct {
	Provider ProviderName
	Model    string
	Kind     FailureKind
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s/%s: %s", e.Provider, e.Model, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// FailureKindOf reports the kind of a provider failure, or "" when err is not a *ProviderError.
func FailureKindOf(err error) FailureKind {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}
