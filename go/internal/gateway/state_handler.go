package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/felt/go/internal/cashgame"
	"github.com/mcdev12/felt/go/internal/snapshots"
	"github.com/mcdev12/felt/go/internal/tourney"
)

// StateHandler serves derive-on-request JSON state for non-WebSocket
// consumers. Each request fetches a fresh snapshot and derives the state at
// the current instant; nothing is cached, so the answer is always the one a
// concurrent ticking presenter would produce.
type StateHandler struct {
	source *snapshots.Source
	clock  clockwork.Clock
}

// NewStateHandler creates a new state handler.
func NewStateHandler(source *snapshots.Source, clock clockwork.Clock) *StateHandler {
	return &StateHandler{source: source, clock: clock}
}

// HandleSessionState returns the derived cash-session state for a table.
func (h *StateHandler) HandleSessionState(w http.ResponseWriter, r *http.Request) {
	tableID, ok := parseUUIDParam(w, r, "table_id")
	if !ok {
		return
	}

	snap, err := h.source.SessionSnapshot(r.Context(), tableID)
	if err != nil {
		log.Error().Err(err).Str("table_id", tableID.String()).Msg("failed to fetch session snapshot")
		http.Error(w, "failed to fetch session snapshot", http.StatusBadGateway)
		return
	}

	writeJSON(w, cashgame.Derive(snap, h.clock.Now()))
}

// HandleTournamentState returns the derived tournament clock state.
func (h *StateHandler) HandleTournamentState(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := parseUUIDParam(w, r, "tournament_id")
	if !ok {
		return
	}

	snap, err := h.source.TournamentSnapshot(r.Context(), tournamentID)
	if err != nil {
		log.Error().Err(err).Str("tournament_id", tournamentID.String()).Msg("failed to fetch tournament snapshot")
		http.Error(w, "failed to fetch tournament snapshot", http.StatusBadGateway)
		return
	}

	writeJSON(w, tourney.DeriveClock(snap, h.clock.Now()))
}

// HandlePlayerState returns the derived per-player tournament overlay.
func (h *StateHandler) HandlePlayerState(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := parseUUIDParam(w, r, "tournament_id")
	if !ok {
		return
	}
	playerID, ok := parseUUIDParam(w, r, "player_id")
	if !ok {
		return
	}

	snap, err := h.source.TournamentSnapshot(r.Context(), tournamentID)
	if err != nil {
		log.Error().Err(err).Str("tournament_id", tournamentID.String()).Msg("failed to fetch tournament snapshot")
		http.Error(w, "failed to fetch tournament snapshot", http.StatusBadGateway)
		return
	}
	player, err := h.source.PlayerStatus(r.Context(), tournamentID, playerID)
	if err != nil {
		log.Error().Err(err).Str("player_id", playerID.String()).Msg("failed to fetch player status")
		http.Error(w, "failed to fetch player status", http.StatusBadGateway)
		return
	}

	writeJSON(w, tourney.DerivePlayer(snap, player, h.clock.Now()))
}

// RegisterRoutes registers state routes with an HTTP mux.
func (h *StateHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/state/session", h.HandleSessionState)
	mux.HandleFunc("/state/tournament", h.HandleTournamentState)
	mux.HandleFunc("/state/player", h.HandlePlayerState)
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		http.Error(w, name+" is required", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		http.Error(w, "invalid "+name+" format", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode state response")
	}
}
