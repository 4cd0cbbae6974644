package script

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"veostudio/internal/domain"
)

func newTestRelay(t *testing.T, rt roundTripFunc) *RelayBackend {
	t.Helper()
	backend, err := NewRelayBackend(RelayOptions{
		Endpoint:   "https://relay.example.com/run",
		Token:      "relay-token",
		HTTPClient: &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("NewRelayBackend returned error: %v", err)
	}
	return backend
}

func TestRelayBackendWrappedOutput(t *testing.T) {
	var captured *http.Request
	var capturedBody []byte
	backend := newTestRelay(t, func(r *http.Request) (*http.Response, error) {
		captured = r
		capturedBody, _ = io.ReadAll(r.Body)
		body, _ := json.Marshal(map[string]any{"output": map[string]string{"text": scriptJSON(2)}})
		return jsonResponse(http.StatusOK, string(body)), nil
	})

	script, err := backend.Generate(context.Background(), domain.ScriptRequest{Idea: "x", Duration: "16"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(script.Scenes) != 2 {
		t.Fatalf("len(Scenes) = %d, want 2", len(script.Scenes))
	}

	if captured.Header.Get("Authorization") != "Bearer relay-token" {
		t.Fatal("bearer token not sent")
	}
	var sent relayRequest
	if err := json.Unmarshal(capturedBody, &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if sent.Input.Prompt == "" {
		t.Fatal("relay request missing input.prompt")
	}
}

func TestRelayBackendPlainStringOutput(t *testing.T) {
	backend := newTestRelay(t, func(r *http.Request) (*http.Response, error) {
		body, _ := json.Marshal(map[string]string{"output": scriptJSON(1)})
		return jsonResponse(http.StatusOK, string(body)), nil
	})

	script, err := backend.Generate(context.Background(), domain.ScriptRequest{Idea: "x", Duration: "8"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(script.Scenes) != 1 {
		t.Fatalf("len(Scenes) = %d, want 1", len(script.Scenes))
	}
}

func TestRelayBackendMissingConfig(t *testing.T) {
	backend, err := NewRelayBackend(RelayOptions{})
	if err != nil {
		t.Fatalf("NewRelayBackend returned error: %v", err)
	}
	if _, err := backend.Generate(context.Background(), domain.ScriptRequest{Idea: "x"}); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestRelayBackendUpstreamFailure(t *testing.T) {
	backend := newTestRelay(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `{"detail":"worker crashed"}`), nil
	})

	_, err := backend.Generate(context.Background(), domain.ScriptRequest{Idea: "x"})
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if upstream.Code != http.StatusBadGateway {
		t.Fatalf("Code = %d", upstream.Code)
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	if _, err := New("webhook", GeminiOptions{}, RelayOptions{}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
