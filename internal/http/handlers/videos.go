package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"veostudio/internal/domain"
)

type videoGenerateRequest struct {
	Mode   string      `json:"mode"`
	Prompt string      `json:"prompt"`
	Image  *videoImage `json:"image,omitempty"`
}

type videoImage struct {
	MIME string `json:"mime"`
	Data []byte `json:"data"`
}

type videoGenerateResponse struct {
	URI   string     `json:"uri"`
	Video videoBytes `json:"video"`
}

type videoBytes struct {
	MIME string `json:"mime"`
	Data []byte `json:"data"`
}

// VideosGenerate drives one video job end to end: submit, poll until done,
// then materialize the result locator into bytes.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	var req videoGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	job := domain.VideoRequest{
		Mode:   domain.VideoMode(req.Mode),
		Prompt: req.Prompt,
	}
	if req.Image != nil {
		job.Image = &domain.InlineImage{MIME: req.Image.MIME, Data: req.Image.Data}
		if job.Mode == "" {
			job.Mode = domain.VideoModeImage
		}
	}
	if job.Mode == "" {
		job.Mode = domain.VideoModeText
	}

	op, err := a.Videos.Submit(r.Context(), job)
	if err != nil {
		a.videoError(w, err)
		return
	}
	op, err = a.Videos.Await(r.Context(), op)
	if err != nil {
		a.videoError(w, err)
		return
	}
	uri, err := a.Videos.ResultURI(op)
	if err != nil {
		a.videoError(w, err)
		return
	}
	blob, err := a.Videos.Materialize(r.Context(), uri)
	if err != nil {
		a.videoError(w, err)
		return
	}

	a.json(w, http.StatusOK, videoGenerateResponse{
		URI:   uri,
		Video: videoBytes{MIME: blob.MIME, Data: blob.Data},
	})
}

// videoError adds the key hint for the upstream statuses that almost always
// mean the saved key cannot use this model; everything else passes through
// the shared mapping.
func (a *App) videoError(w http.ResponseWriter, err error) {
	a.Logger.Warn().Err(err).Msg("videos: generation failed")

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		switch {
		case upstream.Code == http.StatusNotFound,
			upstream.Status == "NOT_FOUND",
			strings.Contains(upstream.Message, "Requested entity was not found"):
			a.error(w, http.StatusBadGateway, "model_unavailable",
				"The video model is not available with this API key. Check the key or use another one.")
			return
		case upstream.Code == http.StatusForbidden,
			upstream.Status == "PERMISSION_DENIED":
			a.error(w, http.StatusBadGateway, "permission_denied",
				"The API key was denied access. Check the key or use another one.")
			return
		}
	}

	status, code, message := mapError(err)
	a.error(w, status, code, message)
}
