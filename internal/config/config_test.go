package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/copyfy/copyfy/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "copyfy"
user = "copyfy"
password = "copyfy"
ssl_mode = "disable"

[storage]
container_name = "images"
connection_string = "DefaultEndpointsProtocol=http;AccountName=copyfystore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/copyfystore;"

[api]
base_path = "/api"

[api.pagination]
default_page_size = 25
max_page_size = 50

[api.catalog]
page_size = 12

[api.uploads]
queue_limit = 10
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"
`

// minimalConfig carries only the fields validation requires.
const minimalConfig = `
[database]
name = "copyfy"
user = "copyfy"

[storage]
connection_string = "conn"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "copyfy" {
		t.Errorf("database name: got %s, want copyfy", cfg.Database.Name)
	}
	if cfg.Storage.ContainerName != "images" {
		t.Errorf("container: got %s, want images", cfg.Storage.ContainerName)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("default page size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Catalog.PageSize != 12 {
		t.Errorf("catalog page size: got %d, want 12", cfg.API.Catalog.PageSize)
	}
	if cfg.API.Uploads.QueueLimit != 10 {
		t.Errorf("queue limit: got %d, want 10", cfg.API.Uploads.QueueLimit)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)
	t.Setenv("COPYFY_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("overlay port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("overlay db host: got %s, want prodhost", cfg.Database.Host)
	}
	// untouched base values survive the overlay
	if cfg.Database.Name != "copyfy" {
		t.Errorf("database name: got %s, want copyfy", cfg.Database.Name)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("default base path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Catalog.PageSize != 24 {
		t.Errorf("default catalog page size: got %d, want 24", cfg.API.Catalog.PageSize)
	}
	if cfg.API.Catalog.DebounceDuration() != 260*time.Millisecond {
		t.Errorf("default debounce: got %v, want 260ms", cfg.API.Catalog.DebounceDuration())
	}
	if cfg.API.Uploads.QueueLimit != 20 {
		t.Errorf("default queue limit: got %d, want 20", cfg.API.Uploads.QueueLimit)
	}
	if cfg.API.MaxUploadSizeBytes() != 50*1024*1024 {
		t.Errorf("default max upload: got %d, want 50MB", cfg.API.MaxUploadSizeBytes())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	t.Setenv("COPYFY_SERVER_PORT", "3000")
	t.Setenv("COPYFY_CATALOG_PAGE_SIZE", "48")
	t.Setenv("COPYFY_UPLOADS_QUEUE_LIMIT", "5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("env port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.API.Catalog.PageSize != 48 {
		t.Errorf("env catalog page size: got %d, want 48", cfg.API.Catalog.PageSize)
	}
	if cfg.API.Uploads.QueueLimit != 5 {
		t.Errorf("env queue limit: got %d, want 5", cfg.API.Uploads.QueueLimit)
	}
}

func TestLoadValidation(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `
[storage]
connection_string = "conn"
`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Error("expected validation failure for missing database name/user")
	}
}
