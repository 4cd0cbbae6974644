package script

import (
	"encoding/json"
	"fmt"
	"strings"

	"veostudio/internal/domain"
)

// parseScript decodes a raw model response into a Script. Parsing is strict:
// any missing or empty required field rejects the whole response; a script
// is never partially populated.
func parseScript(raw string) (*domain.Script, error) {
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrBadResponse)
	}

	var payload struct {
		Summary *string `json:"summary"`
		Scenes  []struct {
			Index           *int    `json:"index"`
			Duration        *string `json:"duration"`
			Description     *string `json:"description"`
			ImagePrompt     *string `json:"image_prompt"`
			MotionPrompt    *string `json:"motion_prompt"`
			VideoPromptJSON *string `json:"video_prompt_json"`
		} `json:"scenes"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadResponse, err)
	}
	if payload.Summary == nil || strings.TrimSpace(*payload.Summary) == "" {
		return nil, fmt.Errorf("%w: missing summary", domain.ErrBadResponse)
	}
	if len(payload.Scenes) == 0 {
		return nil, fmt.Errorf("%w: no scenes", domain.ErrBadResponse)
	}

	script := &domain.Script{Summary: *payload.Summary}
	for i, s := range payload.Scenes {
		switch {
		case s.Index == nil:
			return nil, fmt.Errorf("%w: scene %d missing index", domain.ErrBadResponse, i+1)
		case *s.Index != i+1:
			return nil, fmt.Errorf("%w: scene indices must be contiguous from 1, got %d at position %d", domain.ErrBadResponse, *s.Index, i+1)
		}
		for field, value := range map[string]*string{
			"duration":          s.Duration,
			"description":       s.Description,
			"image_prompt":      s.ImagePrompt,
			"motion_prompt":     s.MotionPrompt,
			"video_prompt_json": s.VideoPromptJSON,
		} {
			if value == nil || strings.TrimSpace(*value) == "" {
				return nil, fmt.Errorf("%w: scene %d missing %s", domain.ErrBadResponse, i+1, field)
			}
		}
		script.Scenes = append(script.Scenes, domain.Scene{
			Index:           *s.Index,
			Duration:        *s.Duration,
			Description:     *s.Description,
			ImagePrompt:     *s.ImagePrompt,
			MotionPrompt:    *s.MotionPrompt,
			VideoPromptJSON: *s.VideoPromptJSON,
		})
	}
	return script, nil
}

// ensureSceneCount rejects a script whose scene count differs from the
// requested one. The instruction demands an exact count; a mismatch means
// the model ignored it.
func ensureSceneCount(script *domain.Script, want int) error {
	if len(script.Scenes) != want {
		return fmt.Errorf("%w: got %d scenes, requested %d", domain.ErrBadResponse, len(script.Scenes), want)
	}
	return nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
