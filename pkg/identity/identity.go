// Package identity provides the signed-in principal abstraction consumed by
// upload and delete operations. Browsing never requires a principal.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/copyfy/copyfy/pkg/lifecycle"
)

// ErrSignedOut indicates no principal is signed in. Operations that require
// one (uploads, deletes) fail with it before any side effect.
var ErrSignedOut = errors.New("no signed-in principal")

// Principal identifies an authenticated actor.
type Principal struct {
	ID string `json:"id"`
}

// Provider exposes sign-in and change notification for the current principal.
type Provider interface {
	// Start registers a startup hook that establishes the initial session.
	Start(lc *lifecycle.Coordinator) error
	// SignInAnonymous establishes an anonymous session and returns its principal.
	SignInAnonymous(ctx context.Context) (Principal, error)
	// Current returns the signed-in principal, or false when signed out.
	Current() (Principal, bool)
	// Subscribe registers fn for principal change notifications and returns
	// an unsubscribe function. fn fires immediately if already signed in.
	Subscribe(fn func(Principal)) func()
}

type anonymous struct {
	mu        sync.RWMutex
	principal *Principal
	subs      map[int]func(Principal)
	nextSub   int
	logger    *slog.Logger
}

// NewAnonymous creates a Provider that mints anonymous uuid-backed principals.
func NewAnonymous(logger *slog.Logger) Provider {
	return &anonymous{
		subs:   make(map[int]func(Principal)),
		logger: logger.With("system", "identity"),
	}
}

func (a *anonymous) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting identity provider")

	lc.OnStartup(func() {
		if _, err := a.SignInAnonymous(lc.Context()); err != nil {
			a.logger.Error("anonymous sign-in failed", "error", err)
		}
	})

	return nil
}

func (a *anonymous) SignInAnonymous(_ context.Context) (Principal, error) {
	a.mu.Lock()
	if a.principal == nil {
		a.principal = &Principal{ID: uuid.NewString()}
	}
	p := *a.principal
	subs := make([]func(Principal), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}

	a.logger.Info("signed in", "principal", p.ID)
	return p, nil
}

func (a *anonymous) Current() (Principal, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.principal == nil {
		return Principal{}, false
	}
	return *a.principal, true
}

func (a *anonymous) Subscribe(fn func(Principal)) func() {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	current := a.principal
	a.mu.Unlock()

	if current != nil {
		fn(*current)
	}

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}
