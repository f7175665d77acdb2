package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aichat/config"
	"aichat/domain"
)

func testConfig(upstreamURL string) *config.Config {
	return &config.Config{
		OpenAIAPIKey:    "test-key",
		OpenAIBaseURL:   upstreamURL + "/v1",
		GitHubToken:     "test-token",
		GitHubModelsURL: upstreamURL + "/v1",
	}
}

// sseChunks writes content fragments in the streaming wire format.
func sseChunks(w http.ResponseWriter, fragments ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	for _, f := range fragments {
		fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", f)
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
}

func TestResolveRoutingTable(t *testing.T) {
	r := NewRouter(testConfig("http://example.com"))

	cases := []struct {
		modelID     string
		backend     string
		nativeModel string
	}{
		{"anthropic/claude-3-opus", "openai", "claude-3-opus-20240229"},
		{"anthropic/claude-3-sonnet", "openai", "claude-3-sonnet-20240229"},
		{"anthropic/claude-3-haiku", "openai", "claude-3-haiku-20240307"},
		{"openai/gpt-4o", "openai", "gpt-4o-2024-05-13"},
		{"openai/gpt-4-turbo", "openai", "gpt-4-turbo-2024-04-09"},
		{"openai/gpt-3.5-turbo", "openai", "gpt-3.5-turbo"},
		{"github/gpt-4.1", "github", "openai/gpt-4.1"},
	}
	for _, tc := range cases {
		backend, native := r.Resolve(tc.modelID)
		if backend.Name() != tc.backend {
			t.Errorf("%s: expected backend %s, got %s", tc.modelID, tc.backend, backend.Name())
		}
		if native != tc.nativeModel {
			t.Errorf("%s: expected native model %s, got %s", tc.modelID, tc.nativeModel, native)
		}
		if !r.Known(tc.modelID) {
			t.Errorf("%s: expected Known", tc.modelID)
		}
	}
}

func TestResolveUnknownFallsBack(t *testing.T) {
	r := NewRouter(testConfig("http://example.com"))

	for _, id := range []string{"", "gpt-4o", "made/up-model"} {
		backend, native := r.Resolve(id)
		if backend.Name() != "openai" || native != "gpt-3.5-turbo" {
			t.Errorf("%q: expected primary/gpt-3.5-turbo, got %s/%s", id, backend.Name(), native)
		}
		if r.Known(id) {
			t.Errorf("%q: expected not Known", id)
		}
	}
}

func TestStreamChatForwardsFragments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		sseChunks(w, "Hel", "", "lo")
	}))
	defer srv.Close()

	r := NewRouter(testConfig(srv.URL))
	backend, native := r.Resolve("openai/gpt-3.5-turbo")

	var got []string
	err := backend.StreamChat(context.Background(), native,
		[]domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
		func(fragment string) error {
			got = append(got, fragment)
			return nil
		})
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}
	// The empty fragment is skipped.
	if strings.Join(got, "|") != "Hel|lo" {
		t.Errorf("unexpected fragments: %v", got)
	}
}

func TestStreamChatGitHubForcesSampling(t *testing.T) {
	var seen struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		TopP        float32 `json:"top_p"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&seen); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		sseChunks(w, "ok")
	}))
	defer srv.Close()

	r := NewRouter(testConfig(srv.URL))
	backend, native := r.Resolve("github/gpt-4.1")

	err := backend.StreamChat(context.Background(), native,
		[]domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
		func(string) error { return nil })
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}
	if seen.Model != "openai/gpt-4.1" {
		t.Errorf("expected provider-qualified native model, got %q", seen.Model)
	}
	if seen.Temperature != 1.0 || seen.TopP != 1.0 {
		t.Errorf("expected pinned sampling, got temperature=%v top_p=%v", seen.Temperature, seen.TopP)
	}
}

func TestStreamChatDispatchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad auth"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	r := NewRouter(testConfig(srv.URL))
	backend, native := r.Resolve("openai/gpt-4o")

	err := backend.StreamChat(context.Background(), native, []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
		func(string) error { return nil })
	if err == nil {
		t.Fatal("expected an error")
	}
	var dispatchErr *DispatchError
	if !errors.As(err, &dispatchErr) {
		t.Fatalf("expected DispatchError, got %T: %v", err, err)
	}
}

func TestStreamChatCallbackAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sseChunks(w, "one", "two", "three")
	}))
	defer srv.Close()

	r := NewRouter(testConfig(srv.URL))
	backend, native := r.Resolve("openai/gpt-3.5-turbo")

	abort := fmt.Errorf("consumer gone")
	calls := 0
	err := backend.StreamChat(context.Background(), native,
		[]domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}},
		func(string) error {
			calls++
			return abort
		})
	if err != abort {
		t.Fatalf("expected callback error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected stream to stop after first fragment, got %d calls", calls)
	}
}
