// Package provider maps provider-qualified model ids to backend clients.
package provider

import (
	"context"
	"errors"
	"io"

	"github.com/sashabaranov/go-openai"

	"aichat/config"
	"aichat/domain"
)

// StreamCallback receives one non-empty content fragment per call, in
// backend emission order.
type StreamCallback func(fragment string) error

// Backend is one configured completion provider.
type Backend struct {
	name   string
	client *openai.Client

	// GitHub Models rejects non-default sampling; requests to it are
	// pinned to temperature=1.0, top_p=1.0.
	forceSampling bool
}

// Name returns the backend's identifier ("openai" or "github").
func (b *Backend) Name() string { return b.name }

// StreamChat issues a streaming completion call and feeds each content
// fragment to fn. Fragments with empty content are skipped. A non-nil
// error from fn aborts the stream and is returned as-is.
func (b *Backend) StreamChat(ctx context.Context, model string, messages []domain.ChatMessage, fn StreamCallback) error {
	req := openai.ChatCompletionRequest{
		Model:  model,
		Stream: true,
	}
	if b.forceSampling {
		req.Temperature = 1.0
		req.TopP = 1.0
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	stream, err := b.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return &DispatchError{Err: err}
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		fragment := resp.Choices[0].Delta.Content
		if fragment == "" {
			continue
		}
		if err := fn(fragment); err != nil {
			return err
		}
	}
}

// DispatchError marks a backend call that failed before any fragment
// was produced (auth failure, bad model name, unreachable host).
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string { return "backend dispatch failed: " + e.Err.Error() }
func (e *DispatchError) Unwrap() error { return e.Err }

type route struct {
	backend     *Backend
	nativeModel string
}

// Router resolves a model id to a backend and its native model name.
// The table is built once at startup and never mutated; Resolve is safe
// for concurrent use.
type Router struct {
	table    map[string]route
	fallback route
}

// NewRouter builds the routing table from the configured backends.
func NewRouter(cfg *config.Config) *Router {
	primary := newBackend("openai", cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, false)
	github := newBackend("github", cfg.GitHubModelsURL, cfg.GitHubToken, true)

	table := map[string]route{
		"anthropic/claude-3-opus":   {primary, "claude-3-opus-20240229"},
		"anthropic/claude-3-sonnet": {primary, "claude-3-sonnet-20240229"},
		"anthropic/claude-3-haiku":  {primary, "claude-3-haiku-20240307"},
		"openai/gpt-4o":             {primary, "gpt-4o-2024-05-13"},
		"openai/gpt-4-turbo":        {primary, "gpt-4-turbo-2024-04-09"},
		"openai/gpt-3.5-turbo":      {primary, "gpt-3.5-turbo"},
		// GitHub Models takes the provider-qualified id as its native name.
		"github/gpt-4.1": {github, "openai/gpt-4.1"},
	}

	return &Router{
		table:    table,
		fallback: route{primary, "gpt-3.5-turbo"},
	}
}

func newBackend(name, baseURL, apiKey string, forceSampling bool) *Backend {
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = baseURL
	return &Backend{
		name:          name,
		client:        openai.NewClientWithConfig(clientCfg),
		forceSampling: forceSampling,
	}
}

// Resolve maps a model id to (backend, native model name). Unknown ids
// resolve to the primary backend's default model: a deliberate policy,
// so typos stream from the default model instead of failing. Callers
// that need to distinguish can check Known first.
func (r *Router) Resolve(modelID string) (*Backend, string) {
	if rt, ok := r.table[modelID]; ok {
		return rt.backend, rt.nativeModel
	}
	return r.fallback.backend, r.fallback.nativeModel
}

// Known reports whether the model id has an explicit route.
func (r *Router) Known(modelID string) bool {
	_, ok := r.table[modelID]
	return ok
}
