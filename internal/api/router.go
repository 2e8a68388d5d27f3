package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/warband/internal/warbandservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *warbandservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Warbands.
	r.Get("/warbands", h.ListWarbands)
	r.Route("/warbands/{id}", func(r chi.Router) {
		r.Get("/", h.GetWarband)
		r.Put("/", h.PutWarband)
		r.Delete("/", h.DeleteWarband)
		r.Get("/summary", h.GetSummary)
		r.Get("/sheet", h.GetSheet)
		r.Get("/document", h.GetDocument)
		r.Get("/print", h.PrintWarband)
		r.Get("/stream", h.StreamWarband)
	})

	// Search.
	r.Get("/search", h.Search)

	// Modifier catalog.
	r.Get("/modifiers", h.ListModifiers)
	r.Get("/modifiers/{name}", h.GetModifier)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
