package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"veostudio/internal/http/handlers"
	"veostudio/internal/infra"
	"veostudio/internal/middleware"
)

func NewRouter(app *handlers.App, logger infra.Logger, allowedOrigins []string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	if len(allowedOrigins) > 0 {
		r.Use(middleware.CORS(allowedOrigins))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/scripts", func(r chi.Router) {
		r.Post("/", app.ScriptsGenerate)
	})

	r.Route("/v1/tryon", func(r chi.Router) {
		r.Post("/batches", app.TryOnBatch)
		r.Post("/archive", app.TryOnArchive)
	})

	r.Route("/v1/videos", func(r chi.Router) {
		r.Post("/", app.VideosGenerate)
	})

	r.Route("/v1/credentials/gemini", func(r chi.Router) {
		r.Get("/", app.CredentialStatus)
		r.Put("/", app.CredentialSave)
		r.Delete("/", app.CredentialClear)
	})

	return r
}
