package config

import (
	"fmt"
	"os"

	"github.com/copyfy/copyfy/pkg/formatting"
	"github.com/copyfy/copyfy/pkg/middleware"
	"github.com/copyfy/copyfy/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "COPYFY_CORS_ENABLED",
	Origins:          "COPYFY_CORS_ORIGINS",
	AllowedMethods:   "COPYFY_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "COPYFY_CORS_ALLOWED_HEADERS",
	AllowCredentials: "COPYFY_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "COPYFY_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "COPYFY_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "COPYFY_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, pagination, catalog, and upload
// settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	Catalog       CatalogConfig         `toml:"catalog"`
	Uploads       UploadsConfig         `toml:"uploads"`
}

func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Catalog.Finalize(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := c.Uploads.Finalize(); err != nil {
		return fmt.Errorf("uploads: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Catalog.Merge(&overlay.Catalog)
	c.Uploads.Merge(&overlay.Uploads)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("COPYFY_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("COPYFY_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
