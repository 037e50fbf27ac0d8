// Package ticker drives per-entity countdown presentation. Each handle owns
// one entity instance: it re-derives display state once per second between
// snapshot refreshes and snaps to the fresh value when a new snapshot is
// reseeded. Derivation stays pure; the ticker only decides when to recompute.
package ticker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultTickInterval is the display refresh cadence. It is independent of
// the snapshot poll interval.
const DefaultTickInterval = time.Second

// Frame is one derived display state. Both cashgame.State and
// tourney.ClockState satisfy it.
type Frame interface {
	Terminal() bool
	IsPaused() bool
}

// DeriveFunc computes the frame for an instant, closing over the snapshot it
// was seeded with.
type DeriveFunc func(now time.Time) Frame

// Presenter creates ticking handles. In production use
// clockwork.NewRealClock(); tests drive a FakeClock.
type Presenter struct {
	clock    clockwork.Clock
	interval time.Duration
}

// NewPresenter creates a presenter with the given tick interval. A
// non-positive interval falls back to DefaultTickInterval.
func NewPresenter(clock clockwork.Clock, interval time.Duration) *Presenter {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Presenter{clock: clock, interval: interval}
}

// Handle is one live ticking subscription, scoped to one entity instance.
// It must not be carried across a switch to a different entity id.
type Handle struct {
	entityID uuid.UUID
	cancel   context.CancelFunc
	once     sync.Once
	reseedCh chan DeriveFunc
	done     chan struct{}
}

// EntityID returns the entity this handle is scoped to.
func (h *Handle) EntityID() uuid.UUID { return h.entityID }

// Cancel stops the handle. Safe to call more than once; cancelling an
// already-stopped handle is a no-op.
func (h *Handle) Cancel() {
	h.once.Do(h.cancel)
}

// Done is closed once the handle has stopped and no further onTick calls
// will be made.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Reseed replaces the derivation with one closed over a fresh snapshot. The
// next emitted frame snaps to the fresh snapshot's value rather than the
// locally-extrapolated one, even if that jumps the display. Reseeding a
// stopped handle is a no-op.
func (h *Handle) Reseed(derive DeriveFunc) {
	select {
	case h.reseedCh <- derive:
	case <-h.done:
	}
}

// Start begins ticking for one entity. The derivation runs immediately, then
// once per interval while the frame is non-terminal and not paused. onTick
// receives every emitted frame, including the first terminal one; after a
// terminal frame the handle stops itself and no further calls are made.
func (p *Presenter) Start(ctx context.Context, entityID uuid.UUID, derive DeriveFunc, onTick func(Frame)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		entityID: entityID,
		cancel:   cancel,
		reseedCh: make(chan DeriveFunc),
		done:     make(chan struct{}),
	}

	go p.run(ctx, h, derive, onTick)
	return h
}

func (p *Presenter) run(ctx context.Context, h *Handle, derive DeriveFunc, onTick func(Frame)) {
	defer close(h.done)
	defer h.Cancel()

	tick := p.clock.NewTicker(p.interval)
	defer tick.Stop()

	// emit recomputes and delivers one frame; reports whether to keep going.
	emit := func() (paused, alive bool) {
		frame := derive(p.clock.Now())
		onTick(frame)
		if frame.Terminal() {
			log.Debug().Str("entity_id", h.entityID.String()).Msg("frame terminal - stopping ticker")
			return false, false
		}
		return frame.IsPaused(), true
	}

	paused, alive := emit()
	if !alive {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case next := <-h.reseedCh:
			derive = next
			// Snap to the fresh snapshot immediately, paused or not.
			if paused, alive = emit(); !alive {
				return
			}
		case <-tick.Chan():
			if paused {
				// Clock is held; the value cannot change until a fresh
				// snapshot arrives via Reseed.
				continue
			}
			if paused, alive = emit(); !alive {
				return
			}
		}
	}
}
