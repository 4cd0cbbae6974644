package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"veostudio/internal/domain"
	"veostudio/internal/infra"
	"veostudio/internal/infra/credentials"
	"veostudio/internal/providers/script"
	"veostudio/internal/providers/tryon"
	"veostudio/internal/providers/video"
)

// App is the handler container: it holds the three workflow engines and the
// credential store, and owns the error-to-user-facing-message downgrade.
type App struct {
	Logger      *infra.Logger
	Scripts     script.Generator
	TryOn       *tryon.Compositor
	Videos      *video.Orchestrator
	Credentials *credentials.Store
}

func NewApp(logger *infra.Logger, scripts script.Generator, tryOn *tryon.Compositor, videos *video.Orchestrator, creds *credentials.Store) *App {
	return &App{
		Logger:      logger,
		Scripts:     scripts,
		TryOn:       tryOn,
		Videos:      videos,
		Credentials: creds,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// mapError downgrades a typed failure to an HTTP status and user-facing
// message. Components raise typed errors; only this layer produces strings
// for the user, and schema failures never leak the raw payload.
func mapError(err error) (int, string, string) {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusBadRequest, "not_configured",
			"Missing API key. Save a Gemini API key first."
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", trimWrap(err)
	case errors.Is(err, domain.ErrPollTimeout):
		return http.StatusGatewayTimeout, "timeout",
			"Video generation did not finish in time. Try again."
	case errors.Is(err, domain.ErrDownloadFailed):
		return http.StatusBadGateway, "download_failed",
			"Could not download the generated video."
	case errors.Is(err, domain.ErrBadResponse):
		return http.StatusBadGateway, "bad_response",
			"Could not generate a result. Try again."
	case errors.As(err, &upstream):
		return http.StatusBadGateway, "upstream", upstream.Message
	default:
		return http.StatusInternalServerError, "internal", "Unexpected error."
	}
}

// trimWrap strips the sentinel prefix ("invalid input: ...") so the user
// sees only the specific part.
func trimWrap(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}
