package script

import (
	"context"
	"fmt"

	"veostudio/internal/domain"
)

// Generator turns an idea into a complete storyboard script. Both backends
// satisfy the same contract; callers never branch on backend identity.
type Generator interface {
	Generate(ctx context.Context, req domain.ScriptRequest) (*domain.Script, error)
}

const (
	BackendGemini = "gemini"
	BackendRelay  = "relay"
)

// New selects a backend by name. Unknown backends fail explicitly.
func New(backend string, gemini GeminiOptions, relay RelayOptions) (Generator, error) {
	switch backend {
	case BackendGemini:
		return NewGeminiBackend(gemini)
	case BackendRelay:
		return NewRelayBackend(relay)
	default:
		return nil, fmt.Errorf("unsupported script backend %q", backend)
	}
}
