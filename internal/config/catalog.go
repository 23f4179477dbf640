package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvCatalogPageSize    = "COPYFY_CATALOG_PAGE_SIZE"
	EnvCatalogPopularTags = "COPYFY_CATALOG_POPULAR_TAGS"
	EnvCatalogDebounce    = "COPYFY_CATALOG_DEBOUNCE"

	EnvUploadsQueueLimit = "COPYFY_UPLOADS_QUEUE_LIMIT"
	EnvUploadsPreviewDir = "COPYFY_UPLOADS_PREVIEW_DIR"
)

// CatalogConfig holds catalog engine settings.
type CatalogConfig struct {
	PageSize    int    `toml:"page_size"`
	PopularTags int    `toml:"popular_tags"`
	Debounce    string `toml:"debounce"`
}

// DebounceDuration returns Debounce as a time.Duration.
func (c *CatalogConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(c.Debounce)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CatalogConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *CatalogConfig) Merge(overlay *CatalogConfig) {
	if overlay.PageSize != 0 {
		c.PageSize = overlay.PageSize
	}
	if overlay.PopularTags != 0 {
		c.PopularTags = overlay.PopularTags
	}
	if overlay.Debounce != "" {
		c.Debounce = overlay.Debounce
	}
}

func (c *CatalogConfig) loadDefaults() {
	if c.PageSize == 0 {
		c.PageSize = 24
	}
	if c.PopularTags == 0 {
		c.PopularTags = 12
	}
	if c.Debounce == "" {
		c.Debounce = "260ms"
	}
}

func (c *CatalogConfig) loadEnv() {
	if v := os.Getenv(EnvCatalogPageSize); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.PageSize = size
		}
	}
	if v := os.Getenv(EnvCatalogPopularTags); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			c.PopularTags = limit
		}
	}
	if v := os.Getenv(EnvCatalogDebounce); v != "" {
		c.Debounce = v
	}
}

func (c *CatalogConfig) validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("invalid page_size: %d", c.PageSize)
	}
	if _, err := time.ParseDuration(c.Debounce); err != nil {
		return fmt.Errorf("invalid debounce: %w", err)
	}
	return nil
}

// UploadsConfig holds upload pipeline settings.
type UploadsConfig struct {
	QueueLimit int    `toml:"queue_limit"`
	PreviewDir string `toml:"preview_dir"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *UploadsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *UploadsConfig) Merge(overlay *UploadsConfig) {
	if overlay.QueueLimit != 0 {
		c.QueueLimit = overlay.QueueLimit
	}
	if overlay.PreviewDir != "" {
		c.PreviewDir = overlay.PreviewDir
	}
}

func (c *UploadsConfig) loadDefaults() {
	if c.QueueLimit == 0 {
		c.QueueLimit = 20
	}
	if c.PreviewDir == "" {
		c.PreviewDir = os.TempDir()
	}
}

func (c *UploadsConfig) loadEnv() {
	if v := os.Getenv(EnvUploadsQueueLimit); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			c.QueueLimit = limit
		}
	}
	if v := os.Getenv(EnvUploadsPreviewDir); v != "" {
		c.PreviewDir = v
	}
}

func (c *UploadsConfig) validate() error {
	if c.QueueLimit < 1 {
		return fmt.Errorf("invalid queue_limit: %d", c.QueueLimit)
	}
	return nil
}
