package api

import (
	"github.com/copyfy/copyfy/internal/config"
	"github.com/copyfy/copyfy/internal/infrastructure"
	"github.com/copyfy/copyfy/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Catalog    config.CatalogConfig
	Uploads    config.UploadsConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Identity:  infra.Identity,
		},
		Pagination: cfg.API.Pagination,
		Catalog:    cfg.API.Catalog,
		Uploads:    cfg.API.Uploads,
	}
}
