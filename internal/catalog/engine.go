package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/copyfy/copyfy/internal/media"
	"github.com/copyfy/copyfy/pkg/pagination"
)

// DefaultPageSize is the catalog page length. HasMore is inferred from a
// page arriving exactly full, so the value must match the store limit.
const DefaultPageSize = 24

// Result is one successful load: the page of records, whether another
// page may exist, whether the result surface was cleared first, and the
// recomputed quick-filter tags (present only on a reset load).
type Result struct {
	Items       []media.Record `json:"items"`
	HasMore     bool           `json:"has_more"`
	Reset       bool           `json:"reset"`
	PopularTags []string       `json:"popular_tags,omitempty"`
}

// Engine executes catalog queries against the media store and owns the
// continuation state: the active query identity, its cursor, and a
// generation counter that discards responses belonging to a superseded
// identity. Safe for concurrent use.
type Engine struct {
	searcher media.Searcher
	logger   *slog.Logger
	pageSize int
	tagLimit int
	debounce time.Duration

	mu         sync.Mutex
	lastKey    string
	cursor     *media.Cursor
	generation uint64
}

func NewEngine(
	searcher media.Searcher,
	logger *slog.Logger,
	pageSize, tagLimit int,
	debounce time.Duration,
) *Engine {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if tagLimit < 1 {
		tagLimit = DefaultPopularTagLimit
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Engine{
		searcher: searcher,
		logger:   logger.With("system", "catalog"),
		pageSize: pageSize,
		tagLimit: tagLimit,
		debounce: debounce,
	}
}

// Debouncer returns a debouncer carrying the engine's configured quiet
// period. Callers coalescing text-input driven loads create one per input
// source; facet changes and explicit actions bypass it.
func (e *Engine) Debouncer() *Debouncer {
	return NewDebouncer(e.debounce)
}

// Reset forgets the active identity and cursor so the next load starts
// from the first page. Fired after a committed upload batch so new
// records become visible.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastKey = ""
	e.cursor = nil
	e.generation++
}

// Load executes spec against the store and returns one page. A reset
// request, or a spec whose key differs from the active one, discards the
// cursor and starts from the first page; otherwise the load continues
// strictly after the active cursor. On success the cursor advances to the
// last record of a non-empty page. Failures leave the prior cursor
// untouched except ErrIndexRequired, which clears it and disables
// continuation until the index exists. A load that completes after the
// identity has moved on returns ErrStaleLoad and mutates nothing.
func (e *Engine) Load(ctx context.Context, spec Spec, reset bool) (*Result, error) {
	spec = spec.Normalize()
	key := spec.Key()

	e.mu.Lock()
	if reset || key != e.lastKey {
		reset = true
		e.lastKey = key
		e.cursor = nil
		e.generation++
	}
	gen := e.generation
	after := e.cursor
	e.mu.Unlock()

	records, err := e.searcher.Search(ctx, media.SearchQuery{
		License:     spec.License,
		Tokens:      spec.Tokens(),
		OldestFirst: spec.OldestFirst(),
		Limit:       e.pageSize,
		After:       after,
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		return nil, ErrStaleLoad
	}

	if err != nil {
		if errors.Is(err, media.ErrIndexRequired) {
			e.cursor = nil
			e.logger.Warn("keyword index missing", "key", key)
			return nil, err
		}
		e.logger.Error("catalog load failed", "key", key, "error", err)
		return nil, err
	}

	page := pagination.NewPage(records, e.pageSize)
	if len(records) > 0 {
		last := records[len(records)-1]
		e.cursor = &media.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	result := &Result{
		Items:   page.Data,
		HasMore: page.HasMore,
		Reset:   reset,
	}
	if reset {
		result.PopularTags = PopularTags(records, e.tagLimit)
	}
	return result, nil
}
