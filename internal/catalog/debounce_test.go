package catalog_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/copyfy/copyfy/internal/catalog"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := catalog.NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	var last atomic.Int32

	for i := range 5 {
		i := int32(i)
		d.Trigger(func() {
			fired.Add(1)
			last.Store(i)
		})
	}

	time.Sleep(100 * time.Millisecond)

	if fired.Load() != 1 {
		t.Errorf("fired %d times, want 1", fired.Load())
	}
	if last.Load() != 4 {
		t.Errorf("ran trigger %d, want the latest (4)", last.Load())
	}
}

func TestDebouncerFlush(t *testing.T) {
	d := catalog.NewDebouncer(time.Hour)
	defer d.Stop()

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Flush()

	if fired.Load() != 1 {
		t.Errorf("fired %d times after Flush, want 1", fired.Load())
	}

	// a second flush has nothing pending
	d.Flush()
	if fired.Load() != 1 {
		t.Errorf("fired %d times after second Flush, want 1", fired.Load())
	}
}

func TestDebouncerStop(t *testing.T) {
	d := catalog.NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)

	if fired.Load() != 0 {
		t.Errorf("fired %d times after Stop, want 0", fired.Load())
	}
}

func TestDebouncerDefaultDelay(t *testing.T) {
	d := catalog.NewDebouncer(0)
	defer d.Stop()

	start := time.Now()
	done := make(chan struct{})
	d.Trigger(func() { close(done) })

	select {
	case <-done:
		if elapsed := time.Since(start); elapsed < catalog.DefaultDebounce {
			t.Errorf("fired after %v, want at least %v", elapsed, catalog.DefaultDebounce)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced action never fired")
	}
}
