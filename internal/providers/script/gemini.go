package script

import (
	"context"
	"errors"
	"fmt"

	"veostudio/internal/domain"
	"veostudio/internal/providers/genai"
)

// GeminiOptions configures the direct structured-generation backend.
type GeminiOptions struct {
	Client *genai.Client
	Model  string
}

// GeminiBackend generates scripts through a direct generateContent call
// constrained by the script response schema.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

func NewGeminiBackend(opts GeminiOptions) (*GeminiBackend, error) {
	if opts.Client == nil {
		return nil, errors.New("gemini client is required")
	}
	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiBackend{client: opts.Client, model: model}, nil
}

func (g *GeminiBackend) Generate(ctx context.Context, req domain.ScriptRequest) (*domain.Script, error) {
	sceneCount := req.SceneCount()
	instruction := buildInstruction(req, sceneCount)

	response, err := g.client.GenerateContent(ctx, g.model, []genai.Content{{
		Role:  "user",
		Parts: []genai.Part{{Text: instruction}},
	}}, &genai.GenerationConfig{
		ResponseMimeType: "application/json",
		ResponseSchema:   scriptSchema,
		CandidateCount:   1,
	})
	if err != nil {
		return nil, err
	}

	text := response.FirstText()
	if text == "" {
		return nil, fmt.Errorf("%w: no text candidate", domain.ErrBadResponse)
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

var _ Generator = (*GeminiBackend)(nil)
