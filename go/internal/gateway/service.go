package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/felt/go/internal/cashgame"
	"github.com/mcdev12/felt/go/internal/models"
	"github.com/mcdev12/felt/go/internal/snapshots"
	"github.com/mcdev12/felt/go/internal/ticker"
	"github.com/mcdev12/felt/go/internal/tourney"
)

// Service ties the pieces together per watched entity: a snapshot watch
// feeding authoritative state, a ticking handle re-deriving display state
// every second, and the connection manager fanning frames out to clients.
// One run per live entity id; runs start with the first watcher and stop
// with the last one, or when the derived state goes terminal.
type Service struct {
	cm        *ConnectionManager
	source    *snapshots.Source
	presenter *ticker.Presenter

	mu   sync.Mutex
	ctx  context.Context
	runs map[uuid.UUID]*entityRun
}

type entityRun struct {
	watch  *snapshots.Watch
	handle *ticker.Handle
	cancel context.CancelFunc
}

// NewService creates the gateway service.
func NewService(cm *ConnectionManager, source *snapshots.Source, presenter *ticker.Presenter) *Service {
	s := &Service{
		cm:        cm,
		source:    source,
		presenter: presenter,
		runs:      make(map[uuid.UUID]*entityRun),
	}
	cm.SetWatcherHooks(nil, s.Release)
	return s
}

// Run processes broadcasts until ctx is cancelled, then stops every run.
func (s *Service) Run(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cm.Start(ctx)

	s.mu.Lock()
	for id, run := range s.runs {
		run.stop()
		delete(s.runs, id)
	}
	s.mu.Unlock()
}

func (r *entityRun) stop() {
	r.cancel()
	if r.watch != nil {
		r.watch.Cancel()
	}
	if r.handle != nil {
		r.handle.Cancel()
	}
}

// EnsureSession starts ticking a cash-table session if it is not already
// running. Idempotent; called for every new session connection.
func (s *Service) EnsureSession(tableID uuid.UUID) {
	s.ensure(tableID, func(ctx context.Context, run *entityRun) {
		run.watch = s.source.WatchSession(ctx, tableID, func(snap models.SessionSnapshot) {
			derive := func(now time.Time) ticker.Frame {
				return cashgame.Derive(snap, now)
			}
			s.seed(ctx, run, tableID, EventTypeSessionTick, derive)
		})
	})
}

// EnsureTournament starts ticking a tournament clock if it is not already
// running. Idempotent; called for every new tournament connection.
func (s *Service) EnsureTournament(tournamentID uuid.UUID) {
	s.ensure(tournamentID, func(ctx context.Context, run *entityRun) {
		run.watch = s.source.WatchTournament(ctx, tournamentID, func(snap models.TournamentSnapshot) {
			derive := func(now time.Time) ticker.Frame {
				return tourney.DeriveClock(snap, now)
			}
			s.seed(ctx, run, tournamentID, EventTypeTournamentTick, derive)
		})
	})
}

func (s *Service) ensure(entityID uuid.UUID, start func(ctx context.Context, run *entityRun)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[entityID]; exists {
		return
	}
	base := s.ctx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	run := &entityRun{cancel: cancel}
	s.runs[entityID] = run
	start(ctx, run)

	log.Info().Str("entity_id", entityID.String()).Msg("entity run started")
}

// seed hands a fresh snapshot to the ticking handle, creating it on the
// first snapshot.
func (s *Service) seed(ctx context.Context, run *entityRun, entityID uuid.UUID, eventType EventType, derive ticker.DeriveFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.handle != nil {
		run.handle.Reseed(derive)
		return
	}

	run.handle = s.presenter.Start(ctx, entityID, derive, func(frame ticker.Frame) {
		event, err := NewTickEvent(eventType, entityID, frame, time.Now())
		if err != nil {
			log.Error().Err(err).Str("entity_id", entityID.String()).Msg("failed to build tick event")
			return
		}
		s.cm.BroadcastToEntity(entityID, event)
	})

	// A terminal frame stops the handle on its own; retire the whole run
	// so the poll loop does not outlive it.
	handle := run.handle
	go func() {
		select {
		case <-handle.Done():
			s.Release(entityID)
		case <-ctx.Done():
		}
	}()
}

// Release stops and forgets an entity run. Called when the last watcher
// disconnects or the entity reached a terminal state. No-op for unknown ids.
func (s *Service) Release(entityID uuid.UUID) {
	s.mu.Lock()
	run, exists := s.runs[entityID]
	if exists {
		delete(s.runs, entityID)
	}
	s.mu.Unlock()

	if !exists {
		return
	}
	run.stop()
	log.Info().Str("entity_id", entityID.String()).Msg("entity run stopped")
}

// Refresh nudges an entity's snapshot watch to poll out-of-band, e.g. when
// a room event reports a server-side change. Unknown ids are ignored.
func (s *Service) Refresh(entityID uuid.UUID) {
	s.mu.Lock()
	run, exists := s.runs[entityID]
	s.mu.Unlock()

	if exists && run.watch != nil {
		run.watch.Refresh()
	}
}
