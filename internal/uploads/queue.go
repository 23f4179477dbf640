package uploads

import (
	"log/slog"
)

// DefaultQueueLimit bounds the pending queue. Excess files beyond the
// limit are silently dropped, oldest-first retained; this is a capacity
// bound, not a priority policy.
const DefaultQueueLimit = 20

// Queue is the bounded, deduplicated set of files pending upload, together
// with their preview resources. It is owned by a single orchestration flow;
// it is not safe for concurrent use.
type Queue struct {
	limit     int
	items     []Item
	previews  map[string]Preview
	previewFn PreviewFactory
	logger    *slog.Logger
}

// AddResult reports the outcome of one Add call: how many files entered
// the queue and the names rejected by the MIME allow-list. Rejections are
// a notice, never an abort.
type AddResult struct {
	Accepted int      `json:"accepted"`
	Rejected []string `json:"rejected"`
}

// NewQueue creates a queue with the given capacity and preview factory.
// A limit below one falls back to DefaultQueueLimit.
func NewQueue(limit int, previews PreviewFactory, logger *slog.Logger) *Queue {
	if limit < 1 {
		limit = DefaultQueueLimit
	}
	return &Queue{
		limit:     limit,
		items:     make([]Item, 0, limit),
		previews:  make(map[string]Preview),
		previewFn: previews,
		logger:    logger.With("system", "uploads"),
	}
}

// Add filters files through the MIME allow-list, creates one preview per
// unique key, appends every accepted file in order, and truncates the
// queue to capacity. Re-adding an already-queued file appends it again but
// never creates a second preview.
func (q *Queue) Add(files ...File) AddResult {
	var result AddResult

	for _, f := range files {
		if !MimeAllowed(f.Mime) {
			result.Rejected = append(result.Rejected, f.Name)
			continue
		}

		key := f.Key()
		if _, ok := q.previews[key]; !ok && q.previewFn != nil {
			preview, err := q.previewFn(f)
			if err != nil {
				q.logger.Warn("preview creation failed", "file", f.Name, "error", err)
			} else {
				q.previews[key] = preview
			}
		}

		q.items = append(q.items, Item{File: f, Key: key, State: StateQueued})
		result.Accepted++
	}

	q.truncate()
	return result
}

// Remove drops the entries matching key and releases their preview.
// Returns false when no entry matched.
func (q *Queue) Remove(key string) bool {
	kept := q.items[:0]
	removed := false
	for _, item := range q.items {
		if item.Key == key {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	q.items = kept

	if removed {
		q.release(key)
	}
	return removed
}

// Clear empties the queue and releases every preview resource. Idempotent;
// safe to call on an empty queue.
func (q *Queue) Clear() {
	for key := range q.previews {
		q.release(key)
	}
	q.items = q.items[:0]
}

// Items returns a snapshot of the queued entries in order.
func (q *Queue) Items() []Item {
	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return len(q.items)
}

// Preview returns the preview resource for key, when one exists.
func (q *Queue) Preview(key string) (Preview, bool) {
	p, ok := q.previews[key]
	return p, ok
}

// SetState transitions every entry matching key. Failed is absorbing.
func (q *Queue) SetState(key string, state State) {
	for i := range q.items {
		if q.items[i].Key != key || q.items[i].State == StateFailed {
			continue
		}
		q.items[i].State = state
	}
}

// SetProgress raises the progress of every entry matching key. Progress is
// monotonic: a lower value than the current one is ignored.
func (q *Queue) SetProgress(key string, percent float64) {
	for i := range q.items {
		if q.items[i].Key != key {
			continue
		}
		if percent > q.items[i].Progress {
			q.items[i].Progress = percent
		}
	}
}

func (q *Queue) truncate() {
	if len(q.items) <= q.limit {
		return
	}

	dropped := q.items[q.limit:]
	q.items = q.items[:q.limit]

	retained := make(map[string]struct{}, len(q.items))
	for _, item := range q.items {
		retained[item.Key] = struct{}{}
	}

	for _, item := range dropped {
		if _, ok := retained[item.Key]; !ok {
			q.release(item.Key)
		}
	}
}

func (q *Queue) release(key string) {
	preview, ok := q.previews[key]
	delete(q.previews, key)
	if !ok {
		return
	}
	if err := preview.Release(); err != nil {
		q.logger.Warn("preview release failed", "key", key, "error", err)
	}
}
