package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"veostudio/internal/infra/credentials"
)

type credentialUpdateRequest struct {
	APIKey string `json:"api_key"`
}

// CredentialStatus reports whether a key is saved. The key itself is never
// returned.
func (a *App) CredentialStatus(w http.ResponseWriter, r *http.Request) {
	key, err := a.Credentials.Token(r.Context(), credentials.ProviderGemini)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "could not read credential store")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"configured": key != ""})
}

func (a *App) CredentialSave(w http.ResponseWriter, r *http.Request) {
	var req credentialUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		a.error(w, http.StatusBadRequest, "invalid_input", "api_key is required")
		return
	}
	if err := a.Credentials.SetToken(r.Context(), credentials.ProviderGemini, req.APIKey); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "could not save credential")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) CredentialClear(w http.ResponseWriter, r *http.Request) {
	if err := a.Credentials.Clear(r.Context(), credentials.ProviderGemini); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "could not clear credential")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
