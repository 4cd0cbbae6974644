package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"veostudio/internal/domain"
	"veostudio/internal/providers/tryon"
	"veostudio/pkg/zip"
)

const maxUploadMemory = 32 << 20

// TryOnBatch runs one batch composition and streams each completed job's
// result as a server-sent event, so partial results render before the whole
// batch finishes.
func (a *App) TryOnBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}

	models, err := readUploads(r, "models")
	if err == nil {
		var garments, accessories []domain.ReferenceImage
		garments, err = readUploads(r, "garments")
		if err == nil {
			accessories, err = readUploads(r, "accessories")
		}
		if err == nil {
			a.streamBatch(w, r, tryon.BatchRequest{
				Models:      models,
				Garments:    garments,
				Accessories: accessories,
				Style:       r.FormValue("style"),
				AspectRatio: r.FormValue("aspect_ratio"),
			})
			return
		}
	}
	a.error(w, http.StatusBadRequest, "bad_request", "could not read uploaded images")
}

func (a *App) streamBatch(w http.ResponseWriter, r *http.Request, req tryon.BatchRequest) {
	events, err := a.TryOn.Run(r.Context(), req)
	if err != nil {
		status, code, message := mapError(err)
		a.error(w, status, code, message)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		a.error(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for event := range events {
		if event.Err != nil {
			_, _, message := mapError(event.Err)
			writeSSE(w, "error", map[string]string{"message": message})
			flusher.Flush()
			return
		}
		writeSSE(w, "result", event.Result)
		flusher.Flush()
	}
	writeSSE(w, "done", map[string]string{})
	flusher.Flush()
}

func writeSSE(w io.Writer, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// readUploads materializes one multipart field's files as reference images.
// IDs are unique within the field's list.
func readUploads(r *http.Request, field string) ([]domain.ReferenceImage, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[field]
	refs := make([]domain.ReferenceImage, 0, len(files))
	for i, header := range files {
		ref, err := readUpload(header, fmt.Sprintf("%s-%d-%s", field, i, header.Filename))
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func readUpload(header *multipart.FileHeader, id string) (domain.ReferenceImage, error) {
	file, err := header.Open()
	if err != nil {
		return domain.ReferenceImage{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.ReferenceImage{}, err
	}
	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/jpeg"
	}
	return domain.ReferenceImage{
		ID:   id,
		Name: header.Filename,
		MIME: mime,
		Data: data,
	}, nil
}

type archiveRequest struct {
	Images []domain.GeneratedImage `json:"images"`
}

// TryOnArchive bundles previously generated images into a zip download.
func (a *App) TryOnArchive(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if len(req.Images) == 0 {
		a.error(w, http.StatusBadRequest, "invalid_input", "no images to archive")
		return
	}

	assets := make([]zip.Asset, 0, len(req.Images))
	for _, image := range req.Images {
		assets = append(assets, zip.Asset{
			Filename: image.Label,
			MIME:     image.MIME,
			Data:     image.Data,
		})
	}
	payload, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "could not build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="tryon-results.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
