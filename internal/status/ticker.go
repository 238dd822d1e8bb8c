package status

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"kiosk/internal/hours"
)

// DefaultInterval is how often the badge is recomputed.
const DefaultInterval = 60 * time.Second

// Snapshot is one evaluation of the schedule.
type Snapshot struct {
	Badge
	Today      int       `json:"today"`
	Now        string    `json:"now"`
	At         time.Time `json:"at"`
	Transition bool      `json:"transition"`
}

// Subscriber receives every refreshed snapshot. Subscribers run synchronously,
// one refresh at a time, and must not block for long or call Refresh.
type Subscriber func(ctx context.Context, snap Snapshot)

// Evaluate computes a snapshot without publishing it.
func Evaluate(ev *hours.Evaluator) Snapshot {
	t := ev.Time()
	m := hours.MomentAt(t, ev.Location())
	next, ok := ev.NextChangeAt(m)
	return Snapshot{
		Badge: Compose(ev.IsOpenAt(m), next, ok),
		Today: m.Day,
		Now:   m.String(),
		At:    t,
	}
}

// Ticker re-evaluates the schedule on a fixed interval and fans the result out.
type Ticker struct {
	evaluator atomic.Pointer[hours.Evaluator]
	interval  time.Duration
	logger    zerolog.Logger
	reloadCh  chan struct{}

	// refreshMu orders evaluation, comparison with last and publishing.
	refreshMu sync.Mutex

	mu          sync.Mutex
	subscribers []Subscriber
	last        *Snapshot
	running     bool
	stopCh      chan struct{}
}

// NewTicker creates a ticker over ev. A non-positive interval uses DefaultInterval.
func NewTicker(ev *hours.Evaluator, interval time.Duration, logger zerolog.Logger) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := &Ticker{
		interval: interval,
		logger:   logger.With().Str("component", "status_ticker").Logger(),
		reloadCh: make(chan struct{}, 1),
	}
	t.evaluator.Store(ev)
	return t
}

// Evaluator returns the evaluator currently in use.
func (t *Ticker) Evaluator() *hours.Evaluator {
	return t.evaluator.Load()
}

// Swap replaces the evaluator, e.g. after the hours file changed. A running
// ticker refreshes right away on its own goroutine.
func (t *Ticker) Swap(ev *hours.Evaluator) {
	t.evaluator.Store(ev)
	select {
	case t.reloadCh <- struct{}{}:
	default:
	}
	t.logger.Info().Msg("hours evaluator replaced")
}

// Seed sets the snapshot the first refresh is compared with, typically the
// last status published before a restart.
func (t *Ticker) Seed(snap Snapshot) {
	snap.Transition = false
	t.mu.Lock()
	t.last = &snap
	t.mu.Unlock()
}

// Subscribe registers fn for every future snapshot.
func (t *Ticker) Subscribe(fn Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, fn)
}

// Last returns the most recently published snapshot.
func (t *Ticker) Last() (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return Snapshot{}, false
	}
	return *t.last, true
}

// Refresh evaluates now, flags open/closed changes against the previous
// snapshot and publishes the result. Concurrent calls are serialised.
func (t *Ticker) Refresh(ctx context.Context) Snapshot {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	snap := Evaluate(t.evaluator.Load())

	t.mu.Lock()
	if t.last != nil && t.last.Open != snap.Open {
		snap.Transition = true
	}
	t.last = &snap
	handlers := append([]Subscriber(nil), t.subscribers...)
	t.mu.Unlock()

	if snap.Transition {
		t.logger.Info().Bool("open", snap.Open).Str("next_change", snap.NextChange).Msg("status changed")
	}
	for _, handler := range handlers {
		handler(ctx, snap)
	}
	return snap
}

// Start refreshes immediately, then on every interval and after every Swap,
// until ctx is done or Stop is called. It may be called again after it returned.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.running = false
		t.stopCh = nil
		t.mu.Unlock()
	}()

	t.logger.Info().Dur("interval", t.interval).Msg("status ticker started")

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("status ticker stopped by context")
			return
		case <-stopCh:
			t.logger.Info().Msg("status ticker stopped")
			return
		case <-t.reloadCh:
			t.Refresh(ctx)
		case <-ticker.C:
			t.Refresh(ctx)
		}
	}
}

// Stop ends the loop started by Start.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if t.running && t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
	t.mu.Unlock()
}

// IsRunning reports whether Start is active.
func (t *Ticker) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
