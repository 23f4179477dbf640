package uploads

import (
	"github.com/copyfy/copyfy/internal/media"
	"github.com/copyfy/copyfy/pkg/formatting"
)

// Profile carries the shared metadata applied to every item in a batch.
type Profile struct {
	Title           string `json:"title"`
	Tags            string `json:"tags"`
	SourceURL       string `json:"sourceUrl"`
	License         string `json:"license"`
	RightsConfirmed bool   `json:"rightsConfirmed"`
}

// Normalize applies the record constraints to the profile fields.
func (p Profile) Normalize() Profile {
	p.Title = media.NormalizeTitle(p.Title)
	p.SourceURL = media.NormalizeSourceURL(p.SourceURL)
	return p
}

// ParsedTags returns the deduplicated, lowercased tag list.
func (p Profile) ParsedTags() []string {
	return formatting.ParseTags(p.Tags)
}
