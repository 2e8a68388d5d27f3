package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/warband/internal/render"
	"github.com/starford/warband/internal/sse"
	"github.com/starford/warband/internal/warbandservice"
)

// maxSnapshotBytes bounds uploaded snapshot bodies.
const maxSnapshotBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *warbandservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *warbandservice.Service) *Handler {
	return &Handler{svc: svc}
}

func warbandID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// ListWarbands handles GET /api/warbands.
//
//	@Summary		List warbands with optional pagination and filtering
//	@Tags			warbands
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			faction	query		string	false	"Filter by faction code"
//	@Param			sort	query		string	false	"Sort field"	Enums(name, rating, updated)
//	@Success		200		{object}	WarbandListResponse
//	@Security		BearerAuth
//	@Router			/warbands [get]
func (h *Handler) ListWarbands(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListWarbands(r.Context(), limit, offset, q.Get("faction"), q.Get("sort"))
	if err != nil {
		slog.Error("list warbands failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, WarbandListResponse{Warbands: items, Total: total})
}

// GetWarband handles GET /api/warbands/{id}.
//
//	@Summary		Get the derived view of a warband
//	@Tags			warbands
//	@Produce		json
//	@Param			id	path		string	true	"Warband id"
//	@Success		200	{object}	view.View
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/warbands/{id} [get]
func (h *Handler) GetWarband(w http.ResponseWriter, r *http.Request) {
	id := warbandID(r)
	v, err := h.svc.GetView(r.Context(), id)
	if err != nil {
		writeError(w, "get warband", id, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// GetSummary handles GET /api/warbands/{id}/summary.
//
//	@Summary		Get the indexed summary of a warband
//	@Tags			warbands
//	@Produce		json
//	@Param			id	path		string	true	"Warband id"
//	@Success		200	{object}	WarbandSummary
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/warbands/{id}/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id := warbandID(r)
	s, err := h.svc.GetSummary(r.Context(), id)
	if err != nil {
		writeError(w, "get summary", id, err)
		return
	}
	w.Header().Set("ETag", `"`+s.Checksum+`"`)
	writeJSON(w, http.StatusOK, s)
}

// GetSheet handles GET /api/warbands/{id}/sheet.
//
//	@Summary		Get the normalized sheet of a warband
//	@Tags			warbands
//	@Produce		json
//	@Param			id	path		string	true	"Warband id"
//	@Success		200	{object}	models.Sheet
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/warbands/{id}/sheet [get]
func (h *Handler) GetSheet(w http.ResponseWriter, r *http.Request) {
	id := warbandID(r)
	sheet, err := h.svc.GetSheet(r.Context(), id)
	if err != nil {
		writeError(w, "get sheet", id, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

// GetDocument handles GET /api/warbands/{id}/document.
//
//	@Summary		Get the printable document tree of a warband
//	@Tags			warbands
//	@Produce		json
//	@Param			id	path		string	true	"Warband id"
//	@Success		200	{object}	document.Document
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/warbands/{id}/document [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := warbandID(r)
	doc, err := h.svc.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, "get document", id, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// PrintWarband handles GET /api/warbands/{id}/print.
//
//	@Summary		Render the printable HTML document of a warband
//	@Tags			warbands
//	@Produce		html
//	@Param			id	path		string	true	"Warband id"
//	@Success		200	{string}	string	"HTML page"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/warbands/{id}/print [get]
func (h *Handler) PrintWarband(w http.ResponseWriter, r *http.Request) {
	id := warbandID(r)
	doc, err := h.svc.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, "print warband", id, err)
		return
	}
	// Render into a buffer so a template failure can still produce a 500.
	var buf bytes.Buffer
	if err := render.HTML(&buf, doc); err != nil {
		slog.Error("render failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// PutWarband handles PUT /api/warbands/{id}.
//
//	@Summary		Store a raw snapshot with optional optimistic concurrency
//	@Tags			warbands
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string	true	"Warband id"
//	@Param			If-Match	header		string	false	"SHA-256 checksum for optimistic concurrency"
//	@Success		200			{object}	WarbandSummary
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/warbands/{id} [put]
func (h *Handler) PutWarband(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSnapshotBytes)
	id := warbandID(r)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}

	ifMatch := r.Header.Get("If-Match")
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch = strings.Trim(ifMatch, `"`)

	s, err := h.svc.PutSnapshot(r.Context(), id, body, ifMatch)
	if err != nil {
		writeError(w, "put warband", id, err)
		return
	}
	w.Header().Set("ETag", `"`+s.Checksum+`"`)
	writeJSON(w, http.StatusOK, s)
}

// DeleteWarband handles DELETE /api/warbands/{id}.
//
//	@Summary		Delete a warband snapshot
//	@Tags			warbands
//	@Param			id	path	string	true	"Warband id"
//	@Success		204	"Warband deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/warbands/{id} [delete]
func (h *Handler) DeleteWarband(w http.ResponseWriter, r *http.Request) {
	id := warbandID(r)
	if err := h.svc.DeleteSnapshot(r.Context(), id); err != nil {
		writeError(w, "delete warband", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StreamWarband handles GET /api/warbands/{id}/stream.
//
// Each snapshot event is sent as "warband.view" with the freshly derived
// view, or "warband.not_found" while the document is absent.
//
//	@Summary		Stream the derived view of a warband as Server-Sent Events
//	@Tags			warbands
//	@Produce		text/event-stream
//	@Param			id	path	string	true	"Warband id"
//	@Security		BearerAuth
//	@Router			/warbands/{id}/stream [get]
func (h *Handler) StreamWarband(w http.ResponseWriter, r *http.Request) {
	id := warbandID(r)
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	started := false
	err := h.svc.Stream(r.Context(), id, func(st warbandservice.State) error {
		if !started {
			sse.StartStream(w)
			started = true
		}
		event := sse.Event{Type: "warband.not_found", Data: map[string]string{"id": st.ID}}
		if st.Exists {
			event = sse.Event{Type: "warband.view", Data: st.View}
		}
		raw, err := sse.Encode(event)
		if err != nil {
			return err
		}
		if _, err := w.Write(raw); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil && !started {
		writeError(w, "stream warband", id, err)
		return
	}
	if err != nil {
		slog.Debug("stream ended", slog.String("id", id), slog.String("error", err.Error()))
	}
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across warbands
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// ListModifiers handles GET /api/modifiers.
//
//	@Summary		List the modifier catalog in lookup order
//	@Tags			modifiers
//	@Produce		json
//	@Success		200	{object}	ModifierListResponse
//	@Security		BearerAuth
//	@Router			/modifiers [get]
func (h *Handler) ListModifiers(w http.ResponseWriter, _ *http.Request) {
	entries := h.svc.Catalog().Entries()
	out := make([]ModifierResponse, 0, len(entries))
	for _, m := range entries {
		out = append(out, toModifierResponse(m))
	}
	writeJSON(w, http.StatusOK, ModifierListResponse{Modifiers: out})
}

// GetModifier handles GET /api/modifiers/{name}.
//
//	@Summary		Look up a modifier by name (case-insensitive)
//	@Tags			modifiers
//	@Produce		json
//	@Param			name	path		string	true	"Modifier name"
//	@Success		200		{object}	ModifierResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/modifiers/{name} [get]
func (h *Handler) GetModifier(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	m, ok := h.svc.ResolveModifier(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, toModifierResponse(m))
}
