package search

import (
	"sync"
	"time"
)

// Debouncer delays expensive search work until a quiet period with no new
// triggers has elapsed. Every trigger gets a monotonically increasing
// sequence number; only results for the latest sequence may be applied, so
// a superseded in-flight search is discarded on arrival instead of
// clobbering newer results.
type Debouncer struct {
	mu    sync.Mutex
	quiet time.Duration
	seq   uint64
	timer *time.Timer
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Trigger schedules run after the quiet period, superseding any pending or
// in-flight run. run receives its sequence number and must check Current
// before applying results.
func (d *Debouncer) Trigger(run func(seq uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		run(seq)
	})

	return seq
}

// Current reports whether seq is still the latest issued sequence number.
func (d *Debouncer) Current(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return seq == d.seq
}

// Cancel stops any pending run and invalidates in-flight sequence numbers.
// Used when the search mode toggles away from semantic.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
