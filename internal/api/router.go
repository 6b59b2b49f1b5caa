package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/evalview/internal/dashboard"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *dashboard.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/data", h.Data)

	r.Get("/charts", h.Charts)
	r.Get("/charts/{column}", h.Chart)

	r.Get("/outputs", h.Outputs)
	r.Get("/outputs/{index}", h.Output)

	r.Get("/prompt", h.Prompt)

	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// NewSiteRouter serves the dashboard page and raw output files, guarded by the
// same auth middleware as the API.
func NewSiteRouter(svc *dashboard.Service, authEnabled bool, token, outputsRoot, title string) chi.Router {
	page := NewPageHandler(svc, title)
	files := NewFileHandler(outputsRoot)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))
	r.Get("/", page.ServeHTTP)
	r.Get("/files/{name}", files.ServeFile)
	return r
}
