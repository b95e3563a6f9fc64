package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	DefaultRole        = "student"
	DefaultDisplayName = "friend"
)

// Assistant answers chat messages with the active provider and falls back to the local
// responder whenever the provider cannot produce an answer.
type Assistant struct {
	active  ActiveProvider
	local   *LocalResponder
	timeout time.Duration
}

func NewAssistant(active ActiveProvider, local *LocalResponder, queryTimeout time.Duration) *Assistant {
	return &Assistant{active: active, local: local, timeout: queryTimeout}
}

func (a *Assistant) Active() ActiveProvider {
	return a.active
}

// GenerateResponse always returns a non-empty answer.
func (a *Assistant) GenerateResponse(ctx context.Context, message, role string, userData map[string]any) string {
	if role == "" {
		role = DefaultRole
	}
	name := DisplayName(userData)

	if !a.active.IsNone() {
		res := a.queryRemote(ctx, Query{Message: message, Role: role, DisplayName: name})
		if res.OK() {
			return res.Text
		}
		log.Printf("[assistant] %s failed, answering locally: %v", a.active, res.Err)
	}

	return a.local.Respond(message, name)
}

// queryRemote makes the single provider attempt for a request. The call is detached from the
// caller's cancellation and bounded only by the query timeout.
func (a *Assistant) queryRemote(ctx context.Context, q Query) (res Result) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			res = Failure(&ProviderError{
				Provider: a.active.Name,
				Model:    a.active.Model,
				Kind:     FailurePanic,
				Err:      fmt.Errorf("%v", r),
			})
		}
	}()

	res = a.active.Provider.Query(ctx, a.active.Model, q)
	if res.Err == nil && strings.TrimSpace(res.Text) == "" {
		res = Failure(&ProviderError{Provider: a.active.Name, Model: a.active.Model, Kind: FailureEmpty})
	}
	return res
}

// DisplayName returns user_data.name when it is a non-blank string, otherwise "friend".
func DisplayName(userData map[string]any) string {
	if userData == nil {
		return DefaultDisplayName
	}
	name, ok := userData["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return DefaultDisplayName
	}
	return name
}
