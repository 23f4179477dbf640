// Package uploads implements the upload orchestration pipeline: a bounded,
// deduplicated queue of pending files driven sequentially through a
// two-phase commit (blob upload, then record creation) with per-item
// progress reporting and per-item failure isolation.
package uploads

import (
	"fmt"
	"io"
)

// State names the lifecycle position of one queued item. Failed is
// absorbing: a failed item is never retried automatically; the user must
// re-queue the source file.
type State int

const (
	StateQueued State = iota
	StateUploading
	StateBlobCommitted
	StateMetadataCommitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateUploading:
		return "uploading"
	case StateBlobCommitted:
		return "blob-committed"
	case StateMetadataCommitted:
		return "metadata-committed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// File references a local source file pending upload. The payload is
// opened on demand, never buffered into the queue.
type File struct {
	Name     string
	Size     int64
	Modified int64 // epoch milliseconds
	Mime     string
	Open     func() (io.ReadCloser, error)
}

// Key derives the deduplication identity of a file from its name, byte
// size, and last-modified timestamp.
func (f File) Key() string {
	return fmt.Sprintf("%s_%d_%d", f.Name, f.Size, f.Modified)
}

// Item is one queue entry. Progress is 0-100 and never decreases while
// uploading.
type Item struct {
	File     File    `json:"-"`
	Key      string  `json:"key"`
	State    State   `json:"state"`
	Progress float64 `json:"progress"`
}

// allowedMime is the image type allow-list; anything else is rejected at
// queue intake with a notice.
var allowedMime = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// MimeAllowed reports whether mime passes the queue intake allow-list.
func MimeAllowed(mime string) bool {
	_, ok := allowedMime[mime]
	return ok
}
