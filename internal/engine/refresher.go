package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tartampluch/world-clocks/internal/config"
)

// Refresher resolves every city against the active reference policy and
// publishes the result. It is the only owner of the application State.
type Refresher struct {
	Clock  Clock
	Cities []City

	// OnRefresh receives every published snapshot, in order. It runs with
	// the refresher lock held and must not call back into the Refresher.
	OnRefresh func(Snapshot)

	mu           sync.Mutex
	state        *State
	interval     time.Duration
	intervalChan chan time.Duration
}

// NewRefresher builds a Refresher in live mode. A non-positive interval
// falls back to the default refresh interval.
func NewRefresher(clock Clock, cities []City, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = config.DefaultRefreshMillis * time.Millisecond
	}
	return &Refresher{
		Clock:        clock,
		Cities:       cities,
		state:        NewState(),
		interval:     interval,
		intervalChan: make(chan time.Duration, config.ChannelBufferSize),
	}
}

// Refresh recomputes every clock against the active reference and publishes
// the snapshot. Used for one-shot refreshes; it runs in both modes.
func (r *Refresher) Refresh() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshLocked()
}

// Pin switches to the pinned instant "today at hour:minute IST" and
// refreshes immediately. A previous pinned instant is replaced.
func (r *Refresher) Pin(hour, minute int) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	instant := ComputePinnedInstant(r.Clock.Now(), hour, minute)
	r.state.Pin(instant)

	slog.Info(config.MsgReferencePinned,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyReference, instant.Format(time.RFC3339))
	return r.refreshLocked()
}

// Reset clears any pinned instant and refreshes immediately with live time.
func (r *Refresher) Reset() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Clear()
	slog.Info(config.MsgReferenceCleared, config.LogKeyComponent, config.CompEngine)
	return r.refreshLocked()
}

// ApplyInput handles a change of the reference field. Empty text returns to
// live time; a valid HH:MM pins it. Invalid text leaves the state unchanged
// and returns ErrInvalidReference.
func (r *Refresher) ApplyInput(text string) (Snapshot, error) {
	if strings.TrimSpace(text) == "" {
		return r.Reset(), nil
	}

	hour, minute, err := ParseReference(text)
	if err != nil {
		slog.Debug(config.MsgReferenceRejected,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyValue, text)
		return Snapshot{}, err
	}
	return r.Pin(hour, minute), nil
}

// Mode returns the active reference policy.
func (r *Refresher) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Mode()
}

// Hands returns the latest angles published for the city at index.
func (r *Refresher) Hands(index int) (HandAngles, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Hands(index)
}

// Interval returns the current periodic refresh interval.
func (r *Refresher) Interval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// SetInterval changes the periodic refresh interval. A running task re-arms
// its ticker; the latest value wins when several changes queue up.
func (r *Refresher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}

	r.mu.Lock()
	r.interval = d
	r.mu.Unlock()

	for {
		select {
		case r.intervalChan <- d:
			return
		default:
		}
		select {
		case <-r.intervalChan:
		default:
		}
	}
}

// Run refreshes once, then on every tick until ctx is cancelled. Ticks are
// skipped while a reference instant is pinned.
func (r *Refresher) Run(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	r.Refresh()

	current := r.Interval()
	ticker := r.Clock.NewTicker(current)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, current)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case d := <-r.intervalChan:
			if d != current {
				log.Info(config.MsgUpdateInterval, config.LogKeyOld, current, config.LogKeyNew, d)
				current = d
				ticker.Reset(current)
			}

		case <-ticker.Chan():
			r.tick()
		}
	}
}

// tick is the periodic refresh. It never overwrites a pinned reference.
func (r *Refresher) tick() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Mode() == ModePinned {
		slog.Debug(config.MsgTickSkipped, config.LogKeyComponent, config.CompWorker)
		return false
	}
	r.refreshLocked()
	return true
}

func (r *Refresher) refreshLocked() Snapshot {
	ref := r.state.Reference(r.Clock.Now())

	snap := Snapshot{
		Mode:      r.state.Mode(),
		Reference: ref,
		Readings:  make([]Reading, len(r.Cities)),
	}
	for i, c := range r.Cities {
		civil := c.CivilTime(ref)
		hands := AnglesFor(civil)
		r.state.setHands(i, hands)
		snap.Readings[i] = Reading{Index: i, City: c, Time: civil, Hands: hands}
	}

	if r.OnRefresh != nil {
		r.OnRefresh(snap)
	}
	return snap
}
