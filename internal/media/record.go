// Package media implements the media catalog domain: persisted image
// records, their blob linkage, and the store-side query execution consumed
// by the catalog engine.
package media

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxTitleLen bounds record titles; longer input is truncated at intake.
	MaxTitleLen = 80
	// MaxSourceURLLen bounds the optional source attribution URL.
	MaxSourceURLLen = 300

	// DefaultTitle replaces a blank title at submission.
	DefaultTitle = "Untitled"

	// LicenseAll is the filter value meaning "no license constraint".
	LicenseAll = "ALL"
)

// AllowedLicenses enumerates the only license values a record may carry.
// Enforced at submission; no other value reaches storage.
var AllowedLicenses = []string{"CC0-1.0", "PUBLIC-DOMAIN"}

// LicenseAllowed reports whether license may be attached to a record.
func LicenseAllowed(license string) bool {
	return slices.Contains(AllowedLicenses, license)
}

// Record is a persisted catalog entry. Every field serializes on the wire;
// optional values appear as empty strings or arrays, never omitted —
// tags, keywords, license, and created_at must round-trip exactly for
// query matching and sorting to hold.
type Record struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	Keywords    []string  `json:"keywords"`
	SourceURL   string    `json:"source_url"`
	License     string    `json:"license"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   int64     `json:"created_at"`
	DownloadURL string    `json:"download_url"`
	StoragePath string    `json:"storage_path"`
	Mime        string    `json:"mime"`
	ByteSize    int64     `json:"byte_size"`
}

// OwnedBy reports whether principalID may delete this record.
func (r *Record) OwnedBy(principalID string) bool {
	return r.OwnerID != "" && r.OwnerID == principalID
}

// NormalizeTitle trims, truncates to MaxTitleLen characters, and
// substitutes DefaultTitle for blank input. Truncation counts runes, not
// bytes; a multibyte title is never cut mid-character.
func NormalizeTitle(title string) string {
	title = truncateRunes(strings.TrimSpace(title), MaxTitleLen)
	if title == "" {
		return DefaultTitle
	}
	return title
}

// NormalizeSourceURL trims and truncates the attribution URL to
// MaxSourceURLLen characters.
func NormalizeSourceURL(sourceURL string) string {
	return truncateRunes(strings.TrimSpace(sourceURL), MaxSourceURLLen)
}

func truncateRunes(s string, max int) string {
	if runes := []rune(s); len(runes) > max {
		return string(runes[:max])
	}
	return s
}
