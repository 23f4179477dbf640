package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/copyfy/copyfy/internal/media"
	"github.com/copyfy/copyfy/pkg/handlers"
	"github.com/copyfy/copyfy/pkg/routes"
)

// Handler provides the HTTP search endpoint over the catalog engine.
type Handler struct {
	engine *Engine
	logger *slog.Logger
}

// SearchRequest is the search endpoint body: the query spec plus an
// explicit reset flag for first-page loads. Load-more sends reset=false
// with an unchanged spec.
type SearchRequest struct {
	Spec
	Reset bool `json:"reset"`
}

func NewHandler(engine *Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger.With("handler", "catalog"),
	}
}

// Routes returns the route group definition for catalog endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/media",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/search", Handler: h.Search},
		},
	}
}

// Search executes one catalog load. A missing keyword index yields a 409
// carrying the actionable hint; a superseded load yields a 409 the client
// should drop silently.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.engine.Load(r.Context(), req.Spec, req.Reset)
	if err != nil {
		if errors.Is(err, media.ErrIndexRequired) {
			handlers.RespondJSON(w, http.StatusConflict, map[string]string{
				"error":      err.Error(),
				"index_hint": IndexHint,
			})
			return
		}
		if errors.Is(err, ErrStaleLoad) {
			handlers.RespondError(w, h.logger, http.StatusConflict, err)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
