package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tftdatascientist/drdoc/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced; /health is
// always public. sseHandler, if non-nil, is mounted at GET /events inside
// the auth group. maxBodyBytes caps request bodies.
func NewRouter(svc *service.Service, authEnabled bool, token string, sseHandler http.Handler, maxBodyBytes int64) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(MaxBytes(maxBodyBytes))

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))

		// Pipeline.
		r.Post("/detect", h.Detect)
		r.Post("/parse", h.Parse)
		r.Post("/transform", h.Transform)
		r.Get("/formats", h.Formats)
		r.Get("/destinations", h.Destinations)

		// Generated output.
		r.Get("/output/{project}", h.ListOutput)
		r.Get("/output/{project}/*", h.GetOutputFile)
		r.Delete("/output/{project}", h.DeleteOutput)
		r.Delete("/output/{project}/*", h.DeleteOutputFile)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
