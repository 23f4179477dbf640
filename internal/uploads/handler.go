package uploads

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/copyfy/copyfy/pkg/handlers"
	"github.com/copyfy/copyfy/pkg/identity"
	"github.com/copyfy/copyfy/pkg/routes"
)

const multipartMemory = 32 << 20

// Handler provides the HTTP batch upload endpoint. Each request gets its
// own queue and orchestrator; nothing is shared between batches.
type Handler struct {
	creator    Creator
	ident      identity.Provider
	refresh    Refresher
	previews   PreviewFactory
	logger     *slog.Logger
	maxUpload  int64
	queueLimit int
}

// BatchResponse is the batch endpoint payload: the commit report plus the
// names rejected at queue intake.
type BatchResponse struct {
	Report   *Report  `json:"report"`
	Rejected []string `json:"rejected"`
}

func NewHandler(
	creator Creator,
	ident identity.Provider,
	refresh Refresher,
	previews PreviewFactory,
	logger *slog.Logger,
	maxUpload int64,
	queueLimit int,
) *Handler {
	return &Handler{
		creator:    creator,
		ident:      ident,
		refresh:    refresh,
		previews:   previews,
		logger:     logger.With("handler", "uploads"),
		maxUpload:  maxUpload,
		queueLimit: queueLimit,
	}
}

// Routes returns the route group definition for upload endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/media",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/batch", Handler: h.Batch},
		},
	}
}

// Batch accepts a multipart request carrying the shared metadata profile
// and the batch files, queues them, and drives the batch to completion.
// The response reports per-item outcomes; partial failure is a 200 with
// failures listed, not an error status.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	profile := Profile{
		Title:           r.FormValue("title"),
		Tags:            r.FormValue("tags"),
		SourceURL:       r.FormValue("sourceUrl"),
		License:         r.FormValue("license"),
		RightsConfirmed: r.FormValue("rightsConfirmed") == "true",
	}

	queue := NewQueue(h.queueLimit, h.previews, h.logger)
	added := queue.Add(batchFiles(r.MultipartForm.File["files"])...)

	orch := NewOrchestrator(queue, h.creator, h.ident, h.refresh, h.logger)
	report, err := orch.SubmitBatch(r.Context(), profile)
	if err != nil {
		queue.Clear()
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, BatchResponse{
		Report:   report,
		Rejected: added.Rejected,
	})
}

// batchFiles adapts multipart file headers into queue files. The modified
// timestamp comes from the optional per-file Last-Modified part header,
// falling back to the request time.
func batchFiles(parts []*multipart.FileHeader) []File {
	now := time.Now().UnixMilli()

	files := make([]File, 0, len(parts))
	for _, part := range parts {
		modified := now
		if raw := part.Header.Get("Last-Modified"); raw != "" {
			if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
				modified = ms
			}
		}

		files = append(files, File{
			Name:     part.Filename,
			Size:     part.Size,
			Modified: modified,
			Mime:     part.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return part.Open()
			},
		})
	}
	return files
}
