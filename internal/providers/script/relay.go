package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"veostudio/internal/domain"
)

// RelayOptions configures the proxied backend: a single POST endpoint with a
// bearer token, returning the same raw JSON payload as the direct backend.
type RelayOptions struct {
	Endpoint   string
	Token      string
	HTTPClient *http.Client
}

type RelayBackend struct {
	endpoint string
	token    string
	client   *http.Client
}

const relayDefaultTimeout = 60 * time.Second

func NewRelayBackend(opts RelayOptions) (*RelayBackend, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: relayDefaultTimeout}
	}
	return &RelayBackend{
		endpoint: strings.TrimSpace(opts.Endpoint),
		token:    strings.TrimSpace(opts.Token),
		client:   client,
	}, nil
}

type relayRequest struct {
	Input relayInput `json:"input"`
}

type relayInput struct {
	Prompt string `json:"prompt"`
}

// relayOutput accepts both response shapes: {"output":{"text":...}} and
// {"output":"..."}.
type relayOutput struct {
	Output json.RawMessage `json:"output"`
}

func (r *RelayBackend) Generate(ctx context.Context, req domain.ScriptRequest) (*domain.Script, error) {
	if r.endpoint == "" || r.token == "" {
		return nil, fmt.Errorf("%w: relay endpoint and token are required", domain.ErrNotConfigured)
	}

	sceneCount := req.SceneCount()
	instruction := buildInstruction(req, sceneCount)
	body, err := json.Marshal(relayRequest{Input: relayInput{Prompt: instruction}})
	if err != nil {
		return nil, fmt.Errorf("marshal relay request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create relay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, &domain.UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &domain.UpstreamError{Code: resp.StatusCode, Message: "relay call failed"}
	}

	var out relayOutput
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode relay response: %v", domain.ErrBadResponse, err)
	}
	text, err := relayText(out.Output)
	if err != nil {
		return nil, err
	}
	script, err := parseScript(text)
	if err != nil {
		return nil, err
	}
	if err := ensureSceneCount(script, sceneCount); err != nil {
		return nil, err
	}
	return script, nil
}

func relayText(output json.RawMessage) (string, error) {
	if len(output) == 0 {
		return "", fmt.Errorf("%w: relay response has no output", domain.ErrBadResponse)
	}
	var wrapped struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(output, &wrapped); err == nil && wrapped.Text != "" {
		return wrapped.Text, nil
	}
	var plain string
	if err := json.Unmarshal(output, &plain); err == nil && plain != "" {
		return plain, nil
	}
	return "", fmt.Errorf("%w: unrecognized relay output shape", domain.ErrBadResponse)
}

var _ Generator = (*RelayBackend)(nil)
