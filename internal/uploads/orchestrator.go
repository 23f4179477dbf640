package uploads

import (
	"context"
	"log/slog"

	"github.com/copyfy/copyfy/internal/media"
	"github.com/copyfy/copyfy/pkg/identity"
)

// Creator is the store-facing capability the orchestrator consumes. Split
// from media.System so batch runs can be exercised against narrow fakes.
type Creator interface {
	Create(ctx context.Context, cmd media.CreateCommand) (*media.Record, error)
}

// Refresher receives the catalog reset signal after a batch completes so
// newly committed records become visible.
type Refresher interface {
	Reset()
}

// Event reports one observable transition of a queued item while a batch
// runs.
type Event struct {
	Key      string  `json:"key"`
	State    State   `json:"state"`
	Progress float64 `json:"progress"`
}

// Failure records one item that did not commit. Failures never abort the
// batch; remaining items still run.
type Failure struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Report summarizes a completed batch.
type Report struct {
	Succeeded int       `json:"succeeded"`
	Total     int       `json:"total"`
	Failures  []Failure `json:"failures"`
}

// Orchestrator drives the queued files sequentially through the two-phase
// commit: blob upload first, then record creation. Like Queue, it is
// owned by a single flow and is not safe for concurrent use.
type Orchestrator struct {
	queue       *Queue
	creator     Creator
	ident       identity.Provider
	refresh     Refresher
	logger      *slog.Logger
	subscribers map[int]func(Event)
	nextSub     int
}

func NewOrchestrator(
	queue *Queue,
	creator Creator,
	ident identity.Provider,
	refresh Refresher,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		queue:       queue,
		creator:     creator,
		ident:       ident,
		refresh:     refresh,
		logger:      logger.With("system", "uploads"),
		subscribers: make(map[int]func(Event)),
	}
}

// Queue exposes the pending queue the orchestrator drives.
func (o *Orchestrator) Queue() *Queue {
	return o.queue
}

// Subscribe registers fn for item transition events. The returned function
// unsubscribes it.
func (o *Orchestrator) Subscribe(fn func(Event)) func() {
	id := o.nextSub
	o.nextSub++
	o.subscribers[id] = fn

	return func() {
		delete(o.subscribers, id)
	}
}

func (o *Orchestrator) emit(event Event) {
	for _, fn := range o.subscribers {
		fn(event)
	}
}

// SubmitBatch validates the profile, then drives every queued item through
// upload and record creation in queue order, one at a time. All
// preconditions are checked before any upload begins; a failed
// precondition leaves the queue untouched. Item failures are isolated:
// the failed item is marked and the batch continues. On completion the
// queue is cleared, previews released, and the catalog refresh signal
// fired regardless of how many items succeeded.
func (o *Orchestrator) SubmitBatch(ctx context.Context, profile Profile) (*Report, error) {
	principal, ok := o.ident.Current()
	if !ok {
		return nil, identity.ErrSignedOut
	}
	if !profile.RightsConfirmed {
		return nil, ErrRightsUnconfirmed
	}
	if o.queue.Len() == 0 {
		return nil, ErrEmptyQueue
	}
	if !media.LicenseAllowed(profile.License) {
		return nil, media.ErrLicense
	}

	profile = profile.Normalize()
	tags := profile.ParsedTags()

	items := o.queue.Items()
	report := &Report{Total: len(items)}

	for _, item := range items {
		if err := o.submit(ctx, item, profile, tags, principal); err != nil {
			o.queue.SetState(item.Key, StateFailed)
			o.emit(Event{Key: item.Key, State: StateFailed})
			report.Failures = append(report.Failures, Failure{
				Key:   item.Key,
				Name:  item.File.Name,
				Error: err.Error(),
			})
			o.logger.Error("item upload failed",
				"file", item.File.Name,
				"error", err,
			)
			continue
		}
		report.Succeeded++
	}

	o.queue.Clear()
	if o.refresh != nil {
		o.refresh.Reset()
	}

	o.logger.Info("batch complete",
		"succeeded", report.Succeeded,
		"total", report.Total,
	)
	return report, nil
}

func (o *Orchestrator) submit(
	ctx context.Context,
	item Item,
	profile Profile,
	tags []string,
	principal identity.Principal,
) error {
	o.queue.SetState(item.Key, StateUploading)
	o.emit(Event{Key: item.Key, State: StateUploading})

	body, err := item.File.Open()
	if err != nil {
		return err
	}
	defer body.Close()

	progress := func(transferred, total int64) {
		percent := float64(0)
		if total > 0 {
			percent = float64(transferred) / float64(total) * 100
		}
		o.queue.SetProgress(item.Key, percent)

		state := StateUploading
		if total > 0 && transferred >= total {
			state = StateBlobCommitted
			o.queue.SetState(item.Key, state)
		}
		o.emit(Event{Key: item.Key, State: state, Progress: percent})
	}

	record, err := o.creator.Create(ctx, media.CreateCommand{
		Body:      body,
		ByteSize:  item.File.Size,
		Mime:      item.File.Mime,
		Title:     profile.Title,
		Tags:      tags,
		SourceURL: profile.SourceURL,
		License:   profile.License,
		OwnerID:   principal.ID,
		Progress:  progress,
	})
	if err != nil {
		return err
	}

	o.queue.SetProgress(item.Key, 100)
	o.queue.SetState(item.Key, StateMetadataCommitted)
	o.emit(Event{Key: item.Key, State: StateMetadataCommitted, Progress: 100})

	o.logger.Info("item committed",
		"file", item.File.Name,
		"id", record.ID,
	)
	return nil
}
