package snapshots

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/felt/go/internal/models"
)

// DefaultPollInterval is the authoritative refresh cadence. It is a policy
// knob independent of the display tick interval; watchers stay correct under
// any cadence as long as a snapshot eventually arrives.
const DefaultPollInterval = 10 * time.Second

// Fetcher is what the source needs from the room API client: raw wire
// payloads, normalized here.
type Fetcher interface {
	FetchSessionSnapshot(ctx context.Context, tableID uuid.UUID) ([]byte, error)
	FetchTournamentSnapshot(ctx context.Context, tournamentID uuid.UUID) ([]byte, error)
	FetchPlayerStatus(ctx context.Context, tournamentID, playerID uuid.UUID) ([]byte, error)
}

// Source fetches and normalizes authoritative snapshots, and runs polling
// watches that deliver fresh snapshots to subscribers.
type Source struct {
	fetcher      Fetcher
	clock        clockwork.Clock
	pollInterval time.Duration
}

// NewSource creates a snapshot source. A non-positive pollInterval falls
// back to DefaultPollInterval.
func NewSource(fetcher Fetcher, clock clockwork.Clock, pollInterval time.Duration) *Source {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Source{
		fetcher:      fetcher,
		clock:        clock,
		pollInterval: pollInterval,
	}
}

// SessionSnapshot fetches and normalizes one session snapshot.
func (s *Source) SessionSnapshot(ctx context.Context, tableID uuid.UUID) (models.SessionSnapshot, error) {
	payload, err := s.fetcher.FetchSessionSnapshot(ctx, tableID)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	return NormalizeSession(payload)
}

// TournamentSnapshot fetches and normalizes one tournament snapshot.
func (s *Source) TournamentSnapshot(ctx context.Context, tournamentID uuid.UUID) (models.TournamentSnapshot, error) {
	payload, err := s.fetcher.FetchTournamentSnapshot(ctx, tournamentID)
	if err != nil {
		return models.TournamentSnapshot{}, err
	}
	return NormalizeTournament(payload)
}

// PlayerStatus fetches and normalizes one player's tournament status.
func (s *Source) PlayerStatus(ctx context.Context, tournamentID, playerID uuid.UUID) (models.PlayerTournamentStatus, error) {
	payload, err := s.fetcher.FetchPlayerStatus(ctx, tournamentID, playerID)
	if err != nil {
		return models.PlayerTournamentStatus{}, err
	}
	status, err := NormalizePlayerStatus(payload)
	if err != nil {
		return models.PlayerTournamentStatus{}, err
	}
	// An exited player without an elimination timestamp would keep
	// accumulating elapsed time; pin the freeze point at receipt.
	if status.IsExited && status.ExitedAt == nil {
		now := s.clock.Now()
		status.ExitedAt = &now
	}
	return status, nil
}

// Watch is one live polling subscription for one entity.
type Watch struct {
	entityID uuid.UUID
	cancel   context.CancelFunc
	once     sync.Once
	wakeCh   chan struct{}
	done     chan struct{}
}

// Refresh nudges the watch to poll out-of-band, e.g. when a room event
// indicates the entity changed server-side. Never blocks.
func (w *Watch) Refresh() {
	select {
	case w.wakeCh <- struct{}{}:
	default:
	}
}

// Cancel stops the watch. Safe to call more than once.
func (w *Watch) Cancel() {
	w.once.Do(w.cancel)
}

// Done is closed once the watch has stopped.
func (w *Watch) Done() <-chan struct{} { return w.done }

// WatchSession polls a session snapshot and calls onSnapshot with the first
// fetch and every subsequent change.
func (s *Source) WatchSession(ctx context.Context, tableID uuid.UUID, onSnapshot func(models.SessionSnapshot)) *Watch {
	return s.watch(ctx, tableID, func(ctx context.Context) (any, error) {
		return s.SessionSnapshot(ctx, tableID)
	}, func(v any) {
		onSnapshot(v.(models.SessionSnapshot))
	})
}

// WatchTournament polls a tournament snapshot and calls onSnapshot with the
// first fetch and every subsequent change.
func (s *Source) WatchTournament(ctx context.Context, tournamentID uuid.UUID, onSnapshot func(models.TournamentSnapshot)) *Watch {
	return s.watch(ctx, tournamentID, func(ctx context.Context) (any, error) {
		return s.TournamentSnapshot(ctx, tournamentID)
	}, func(v any) {
		onSnapshot(v.(models.TournamentSnapshot))
	})
}

func (s *Source) watch(ctx context.Context, entityID uuid.UUID, fetch func(context.Context) (any, error), deliver func(any)) *Watch {
	ctx, cancel := context.WithCancel(ctx)
	w := &Watch{
		entityID: entityID,
		cancel:   cancel,
		wakeCh:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	go func() {
		defer close(w.done)

		timer := s.clock.NewTimer(s.pollInterval)
		defer timer.Stop()

		var last any
		poll := func() {
			snap, err := fetch(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Str("entity_id", entityID.String()).Msg("snapshot fetch failed; keeping last known")
				}
				return
			}
			if last != nil && reflect.DeepEqual(last, snap) {
				return
			}
			last = snap
			deliver(snap)
		}

		poll()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.Chan():
				poll()
				timer.Reset(s.pollInterval)
			case <-w.wakeCh:
				poll()
				timer.Reset(s.pollInterval)
			}
		}
	}()

	return w
}
