package media

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/copyfy/copyfy/pkg/identity"
	"github.com/copyfy/copyfy/pkg/pagination"
	"github.com/copyfy/copyfy/pkg/storage"
)

// CreateCommand carries everything needed to commit one media item: the
// blob payload plus the catalog metadata attached to it. Body is streamed,
// not buffered; ByteSize must match its length.
type CreateCommand struct {
	Body      io.Reader
	ByteSize  int64
	Mime      string
	Title     string
	Tags      []string
	SourceURL string
	License   string
	OwnerID   string

	// Progress, when non-nil, receives blob transfer events.
	Progress storage.ProgressFunc
}

// Cursor marks the last retrieved record of a page: the keyset position a
// continuation query starts strictly after. Scoped to one query identity.
type Cursor struct {
	CreatedAt int64     `json:"created_at"`
	ID        uuid.UUID `json:"id"`
}

// SearchQuery is the constraint set the catalog engine hands to the store:
// optional license equality, optional keyword membership (OR across
// tokens), created_at ordering, a fixed limit, and an optional start-after
// cursor.
type SearchQuery struct {
	License     string
	Tokens      []string
	OldestFirst bool
	Limit       int
	After       *Cursor
}

// Searcher is the store-facing capability the catalog engine consumes.
type Searcher interface {
	// Search executes the constraint set and returns an ordered page of at
	// most q.Limit records. Returns ErrIndexRequired when the query shape
	// needs the keyword index and the store does not have it.
	Search(ctx context.Context, q SearchQuery) ([]Record, error)
	// KeywordIndexExists probes the store for the keyword search index.
	KeywordIndexExists(ctx context.Context) (bool, error)
}

// Deleter removes a record on behalf of a principal. Split from System so
// handlers can be exercised against narrow fakes.
type Deleter interface {
	Delete(ctx context.Context, id uuid.UUID, principal identity.Principal) error
}

// System defines the public contract for media domain operations.
type System interface {
	Searcher
	Deleter

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	Find(ctx context.Context, id uuid.UUID) (*Record, error)
	Create(ctx context.Context, cmd CreateCommand) (*Record, error)
}
