package catalog

import "errors"

// ErrStaleLoad indicates a load completed after the engine moved on to a
// different query identity. The response was discarded; the caller should
// not retry, the newer load already supersedes it.
var ErrStaleLoad = errors.New("load superseded by a newer query")

// IndexHint is the persistent, actionable message surfaced when keyword
// search needs the media_keywords_gin index and the store does not have
// it.
const IndexHint = "keyword search requires the media_keywords_gin index; apply pending migrations to enable it"
