package media

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/copyfy/copyfy/pkg/handlers"
	"github.com/copyfy/copyfy/pkg/identity"
	"github.com/copyfy/copyfy/pkg/pagination"
	"github.com/copyfy/copyfy/pkg/routes"
)

// Handler provides HTTP endpoints for media record operations.
type Handler struct {
	sys        System
	ident      identity.Provider
	logger     *slog.Logger
	pagination pagination.Config
}

// Detail wraps a record with the capabilities the requesting principal
// holds over it. Delete is only offered to the owner.
type Detail struct {
	Record    Record `json:"record"`
	CanDelete bool   `json:"can_delete"`
}

// NewHandler creates a Handler with the given system, identity provider,
// logger, and pagination config.
func NewHandler(
	sys System,
	ident identity.Provider,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		ident:      ident,
		logger:     logger.With("handler", "media"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for media endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/media",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns an offset-paginated listing with optional query parameter
// filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single record with the caller's capabilities over it.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	rec, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	detail := Detail{Record: *rec}
	if principal, ok := h.ident.Current(); ok {
		detail.CanDelete = rec.OwnedBy(principal.ID)
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}

// Delete removes a record owned by the signed-in principal. Without a
// session, deletes are disabled while browsing remains available.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ident.Current()
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrSignedOut)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id, principal); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
