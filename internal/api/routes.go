package api

import (
	"net/http"

	"github.com/copyfy/copyfy/internal/catalog"
	"github.com/copyfy/copyfy/internal/config"
	"github.com/copyfy/copyfy/internal/media"
	"github.com/copyfy/copyfy/internal/uploads"
	"github.com/copyfy/copyfy/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	mediaHandler := media.NewHandler(
		domain.Media,
		runtime.Identity,
		runtime.Logger,
		runtime.Pagination,
	)

	catalogHandler := catalog.NewHandler(domain.Catalog, runtime.Logger)

	uploadsHandler := uploads.NewHandler(
		domain.Media,
		runtime.Identity,
		domain.Catalog,
		uploads.ThumbnailPreviews(runtime.Uploads.PreviewDir),
		runtime.Logger,
		cfg.API.MaxUploadSizeBytes(),
		runtime.Uploads.QueueLimit,
	)

	routes.Register(
		mux,
		mediaHandler.Routes(),
		catalogHandler.Routes(),
		uploadsHandler.Routes(),
	)
}
