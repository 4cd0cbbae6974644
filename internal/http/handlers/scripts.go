package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"veostudio/internal/domain"
)

type scriptResponse struct {
	Script      *domain.Script       `json:"script"`
	Bundles     domain.PromptBundles `json:"bundles"`
	PromptCount int                  `json:"prompt_count"`
}

// ScriptsGenerate runs the storyboard generator and derives the three
// flattened prompt bundles from the result.
func (a *App) ScriptsGenerate(w http.ResponseWriter, r *http.Request) {
	var req domain.ScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Idea) == "" {
		a.error(w, http.StatusBadRequest, "invalid_input", "idea is required")
		return
	}

	result, err := a.Scripts.Generate(r.Context(), req)
	if err != nil {
		status, code, message := mapError(err)
		a.Logger.Warn().Err(err).Msg("scripts: generation failed")
		a.error(w, status, code, message)
		return
	}

	bundles := result.Bundles()
	a.json(w, http.StatusOK, scriptResponse{
		Script:      result,
		Bundles:     bundles,
		PromptCount: domain.CountPrompts(bundles.Image),
	})
}
