package media

import (
	"net/url"

	"github.com/lib/pq"

	"github.com/copyfy/copyfy/pkg/query"
	"github.com/copyfy/copyfy/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "media", "m").
	Project("id", "ID").
	Project("title", "Title").
	Project("tags", "Tags").
	Project("keywords", "Keywords").
	Project("source_url", "SourceURL").
	Project("license", "License").
	Project("owner_id", "OwnerID").
	Project("created_at", "CreatedAt").
	Project("download_url", "DownloadURL").
	Project("storage_path", "StoragePath").
	Project("mime", "Mime").
	Project("byte_size", "ByteSize")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for media listings. Nil
// fields are ignored. License, OwnerID, and Mime use exact matching; Title
// uses case-insensitive contains matching.
type Filters struct {
	License *string `json:"license,omitempty"`
	OwnerID *string `json:"owner_id,omitempty"`
	Mime    *string `json:"mime,omitempty"`
	Title   *string `json:"title,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("License", f.License).
		WhereEquals("OwnerID", f.OwnerID).
		WhereEquals("Mime", f.Mime).
		WhereContains("Title", f.Title)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if l := values.Get("license"); l != "" {
		f.License = &l
	}
	if o := values.Get("owner_id"); o != "" {
		f.OwnerID = &o
	}
	if m := values.Get("mime"); m != "" {
		f.Mime = &m
	}
	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	err := s.Scan(
		&r.ID,
		&r.Title,
		pq.Array(&r.Tags),
		pq.Array(&r.Keywords),
		&r.SourceURL,
		&r.License,
		&r.OwnerID,
		&r.CreatedAt,
		&r.DownloadURL,
		&r.StoragePath,
		&r.Mime,
		&r.ByteSize,
	)

	// wire contract: arrays are always present, never null
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Keywords == nil {
		r.Keywords = []string{}
	}

	return r, err
}
