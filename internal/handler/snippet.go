package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/auth"
	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/service"
)

// SnippetService is the subset of *service.SnippetService the handler needs.
// Tests substitute a stub.
type SnippetService interface {
	Create(ctx context.Context, ownerID string, in service.CreateSnippetInput) (*model.Snippet, error)
	Get(ctx context.Context, id, viewerID string) (*model.SnippetView, error)
	ListPublic(ctx context.Context, limit, offset int) ([]model.SnippetView, error)
}

// SnippetHandler serves the /api/snippets routes.
type SnippetHandler struct {
	svc    SnippetService
	logger *slog.Logger
}

// NewSnippetHandler creates a new SnippetHandler.
func NewSnippetHandler(svc SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{svc: svc, logger: logger}
}

// HandleCreate stores a new snippet owned by the authenticated caller.
//
// HTTP: POST /api/snippets (behind auth.RequireAuth)
// REQUEST BODY:
//
//	{"title": "hello", "code": "print('hi')", "language": "python",
//	 "tags": ["demo"], "visibility": "public"}
//
// Any owner field in the body is ignored; CreateSnippetInput has none.
// Responds 200 with the stored snippet.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperror.Unauthenticated("No token, authorization denied"))
		return
	}

	var in service.CreateSnippetInput
	if !decodeJSON(w, r, h.logger, &in) {
		return
	}

	snippet, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleListPublic returns public snippets, newest first.
//
// HTTP: GET /api/snippets/public[?limit=N&offset=M]
//
// Without limit every public snippet is returned.
func (h *SnippetHandler) HandleListPublic(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	snippets, err := h.svc.ListPublic(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleGetByID returns one snippet if the caller may see it.
//
// HTTP: GET /api/snippets/{id} (behind auth.OptionalAuth)
//
// Anonymous callers and callers with an unusable token are treated alike.
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	viewerID, _ := auth.UserIDFromContext(r.Context())

	snippet, err := h.svc.Get(r.Context(), id, viewerID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// queryInt parses an optional non-negative integer query parameter.
// Absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.ValidationFailed(name, name+" must be a non-negative integer")
	}
	return n, nil
}
