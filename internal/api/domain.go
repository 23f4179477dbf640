package api

import (
	"github.com/copyfy/copyfy/internal/catalog"
	"github.com/copyfy/copyfy/internal/media"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Media   media.System
	Catalog *catalog.Engine
}

// NewDomain creates all domain systems from the API runtime. The catalog
// engine wraps the media system so batch uploads can fire its reset signal.
func NewDomain(runtime *Runtime) *Domain {
	mediaSystem := media.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	engine := catalog.NewEngine(
		mediaSystem,
		runtime.Logger,
		runtime.Catalog.PageSize,
		runtime.Catalog.PopularTags,
		runtime.Catalog.DebounceDuration(),
	)

	return &Domain{
		Media:   mediaSystem,
		Catalog: engine,
	}
}
