// Package catalog implements the paginated faceted query engine over the
// media store: query identity, keyset continuation, keyword search with
// index-aware degradation, and debounced text input.
package catalog

import (
	"encoding/json"
	"strings"

	"github.com/copyfy/copyfy/internal/media"
	"github.com/copyfy/copyfy/pkg/formatting"
)

// Sort values accepted by a query spec.
const (
	SortNewest = "new"
	SortOldest = "old"
)

// Spec is the user-facing query: free-text search, a license facet, and a
// sort direction. Two specs with the same Key describe the same result
// set; any key change invalidates the active cursor.
type Spec struct {
	Search  string `json:"search"`
	License string `json:"license"`
	Sort    string `json:"sort"`
}

// Normalize trims the search text and substitutes defaults for the facet
// and sort fields.
func (s Spec) Normalize() Spec {
	s.Search = strings.TrimSpace(s.Search)
	if s.License == "" {
		s.License = media.LicenseAll
	}
	if s.Sort != SortOldest {
		s.Sort = SortNewest
	}
	return s
}

// Key returns the canonical identity of the spec. Cursors are scoped to
// one key; comparing keys decides reset-versus-continue.
func (s Spec) Key() string {
	raw, _ := json.Marshal(struct {
		Q    string `json:"q"`
		Lic  string `json:"lic"`
		Sort string `json:"sort"`
	}{s.Search, s.License, s.Sort})
	return string(raw)
}

// Tokens returns the normalized search terms. Empty means no text filter.
func (s Spec) Tokens() []string {
	return formatting.Words(s.Search)
}

// OldestFirst reports whether results sort ascending by creation time.
func (s Spec) OldestFirst() bool {
	return s.Sort == SortOldest
}
