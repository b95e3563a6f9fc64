package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type capturedRequest struct {
	path string
	auth string
	body map[string]any
}

func newProviderServer(t *testing.T, status int, response string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if captured != nil {
			captured.path = r.URL.Path
			captured.auth = r.Header.Get("Authorization")
			if err := json.Unmarshal(raw, &captured.body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChatCompletions_ProbePayload(t *testing.T) {
	var got capturedRequest
	srv := newProviderServer(t, http.StatusOK, `{}`, &got)
	p := NewGroqProvider("gsk-1", srv.Client()).WithEndpoint(srv.URL + "/openai/v1/chat/completions")

	if err := p.Probe(context.Background(), "llama-3.1-8b-instant"); err != nil {
		t.Fatalf("expected probe success, got %v", err)
	}
	if got.auth != "Bearer gsk-1" {
		t.Errorf("unexpected auth header %q", got.auth)
	}
	if got.body["model"] != "llama-3.1-8b-instant" || got.body["max_tokens"] != float64(10) {
		t.Errorf("unexpected probe body %v", got.body)
	}
	msgs := got.body["messages"].([]any)
	first := msgs[0].(map[string]any)
	if len(msgs) != 1 || first["role"] != "user" || first["content"] != "Say hello" {
		t.Errorf("unexpected probe messages %v", msgs)
	}
	if _, ok := got.body["temperature"]; ok {
		t.Errorf("probe must not send temperature")
	}
}

func TestChatCompletions_ProbeNonSuccess(t *testing.T) {
	srv := newProviderServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, nil)
	p := NewOpenAIProvider("sk", srv.Client()).WithEndpoint(srv.URL)

	err := p.Probe(context.Background(), "gpt-3.5-turbo")
	if FailureKindOf(err) != FailureStatus {
		t.Fatalf("expected status failure, got %v", err)
	}
}

func TestChatCompletions_ProbeTransportError(t *testing.T) {
	srv := newProviderServer(t, http.StatusOK, `{}`, nil)
	url := srv.URL
	srv.Close()

	p := NewOpenAIProvider("sk", http.DefaultClient).WithEndpoint(url)
	if err := p.Probe(context.Background(), "gpt-3.5-turbo"); FailureKindOf(err) != FailureTransport {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestChatCompletions_QuerySuccess(t *testing.T) {
	var got capturedRequest
	srv := newProviderServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"Fees are due March 31."}}]}`, &got)
	p := NewOpenAIProvider("sk-2", srv.Client()).WithEndpoint(srv.URL)

	res := p.Query(context.Background(), "gpt-3.5-turbo", Query{Message: "when are fees due?", DisplayName: "Asha"})
	if !res.OK() || res.Text != "Fees are due March 31." {
		t.Fatalf("unexpected result %+v", res)
	}

	if got.body["temperature"] != 0.7 || got.body["max_tokens"] != float64(500) {
		t.Errorf("unexpected query params %v", got.body)
	}
	msgs := got.body["messages"].([]any)
	system := msgs[0].(map[string]any)
	user := msgs[1].(map[string]any)
	if system["role"] != "system" || system["content"] != "You are a helpful AI assistant. User: Asha. Be conversational." {
		t.Errorf("unexpected system message %v", system)
	}
	if user["role"] != "user" || user["content"] != "when are fees due?" {
		t.Errorf("unexpected user message %v", user)
	}
}

func TestChatCompletions_QueryFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		kind     FailureKind
	}{
		{"non-success status", http.StatusTooManyRequests, `{"error":{}}`, FailureStatus},
		{"malformed json", http.StatusOK, `{"choices":[`, FailureDecode},
		{"no choices", http.StatusOK, `{"choices":[]}`, FailureDecode},
		{"missing content", http.StatusOK, `{"choices":[{"message":{}}]}`, FailureDecode},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":""}}]}`, FailureEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newProviderServer(t, tc.status, tc.response, nil)
			p := NewGroqProvider("k", srv.Client()).WithEndpoint(srv.URL)

			res := p.Query(context.Background(), "m", Query{Message: "hi", DisplayName: "friend"})
			if res.OK() {
				t.Fatalf("expected failure, got %+v", res)
			}
			if kind := FailureKindOf(res.Err); kind != tc.kind {
				t.Fatalf("expected %s, got %s (%v)", tc.kind, kind, res.Err)
			}
		})
	}
}

func TestGroq_SystemPromptNamesUser(t *testing.T) {
	var got capturedRequest
	srv := newProviderServer(t, http.StatusOK, `{"choices":[{"message":{"content":"hey"}}]}`, &got)
	p := NewGroqProvider("k", srv.Client()).WithEndpoint(srv.URL)

	p.Query(context.Background(), "llama-3.1-8b-instant", Query{Message: "hi", DisplayName: "friend"})

	system := got.body["messages"].([]any)[0].(map[string]any)
	want := "You are Vignan AI Assistant. Be conversational and helpful.\nUser: friend. Answer naturally and use emojis occasionally."
	if system["content"] != want {
		t.Fatalf("unexpected system prompt %q", system["content"])
	}
}

func TestCohere_ProbePayload(t *testing.T) {
	var got capturedRequest
	srv := newProviderServer(t, http.StatusOK, `{"text":"hello"}`, &got)
	p := NewCohereProvider("co-1", srv.Client()).WithEndpoint(srv.URL + "/v1/chat")

	if err := p.Probe(context.Background(), "command"); err != nil {
		t.Fatalf("expected probe success, got %v", err)
	}
	if got.auth != "Bearer co-1" || got.path != "/v1/chat" {
		t.Errorf("unexpected request auth=%q path=%q", got.auth, got.path)
	}
	if len(got.body) != 2 || got.body["message"] != "Say hello" || got.body["model"] != "command" {
		t.Errorf("unexpected probe body %v", got.body)
	}
}

func TestCohere_QuerySuccess(t *testing.T) {
	var got capturedRequest
	srv := newProviderServer(t, http.StatusOK, `{"text":"The library is open 8-8."}`, &got)
	p := NewCohereProvider("co", srv.Client()).WithEndpoint(srv.URL)

	res := p.Query(context.Background(), "command-r", Query{Message: "library hours?", DisplayName: "Asha"})
	if !res.OK() || res.Text != "The library is open 8-8." {
		t.Fatalf("unexpected result %+v", res)
	}
	if got.body["message"] != "library hours?" || got.body["model"] != "command-r" || got.body["temperature"] != 0.7 {
		t.Errorf("unexpected query body %v", got.body)
	}
	history := got.body["chat_history"].([]any)
	entry := history[0].(map[string]any)
	if len(history) != 1 || entry["role"] != "system" || entry["message"] != "User: Asha. Be helpful and conversational." {
		t.Errorf("unexpected chat_history %v", history)
	}
}

func TestCohere_QueryFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		kind     FailureKind
	}{
		{"non-success status", http.StatusInternalServerError, `oops`, FailureStatus},
		{"malformed json", http.StatusOK, `not json`, FailureDecode},
		{"missing text", http.StatusOK, `{"generation_id":"x"}`, FailureDecode},
		{"empty text", http.StatusOK, `{"text":""}`, FailureEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newProviderServer(t, tc.status, tc.response, nil)
			p := NewCohereProvider("k", srv.Client()).WithEndpoint(srv.URL)

			res := p.Query(context.Background(), "command", Query{Message: "hi", DisplayName: "friend"})
			if kind := FailureKindOf(res.Err); kind != tc.kind {
				t.Fatalf("expected %s, got %s (%v)", tc.kind, kind, res.Err)
			}
		})
	}
}

func TestProberWithHTTPProviders(t *testing.T) {
	down := newProviderServer(t, http.StatusServiceUnavailable, `{}`, nil)
	up := newProviderServer(t, http.StatusOK, `{}`, nil)

	build := func(ctx context.Context, c Candidate) (Provider, error) {
		switch c.Name {
		case ProviderGroq:
			return NewGroqProvider(c.Credential, down.Client()).WithEndpoint(down.URL), nil
		case ProviderOpenAI:
			return NewOpenAIProvider(c.Credential, up.Client()).WithEndpoint(up.URL), nil
		default:
			return NewCohereProvider(c.Credential, up.Client()).WithEndpoint(up.URL), nil
		}
	}

	active := NewProber(build, time.Second).SelectProvider(context.Background(), candidates("g", "o", "c"))
	if active.Name != ProviderOpenAI || active.Model != "gpt-3.5-turbo" {
		t.Fatalf("expected openai, got %s", active)
	}
}
