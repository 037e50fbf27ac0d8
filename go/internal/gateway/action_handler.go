package gateway

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/felt/go/internal/actions"
)

// ActionHandler forwards player action requests to the room service and
// nudges the relevant snapshot watch afterwards. The response only reports
// whether the request was accepted; the displayed state changes when the
// next snapshot carries the effect.
type ActionHandler struct {
	actions *actions.App
	service *Service
}

// NewActionHandler creates a new action handler.
func NewActionHandler(app *actions.App, service *Service) *ActionHandler {
	return &ActionHandler{actions: app, service: service}
}

func (h *ActionHandler) handle(w http.ResponseWriter, r *http.Request, entityParam string, do func(ctx context.Context, entityID, playerID uuid.UUID) error) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entityID, ok := parseUUIDParam(w, r, entityParam)
	if !ok {
		return
	}
	playerID, ok := parseUUIDParam(w, r, "player_id")
	if !ok {
		return
	}

	if err := do(r.Context(), entityID, playerID); err != nil {
		log.Warn().
			Err(err).
			Str("entity_id", entityID.String()).
			Str("player_id", playerID.String()).
			Msg("action request rejected")
		http.Error(w, "action request failed", http.StatusBadGateway)
		return
	}

	// The server accepted the action; pull a fresh snapshot sooner than the
	// regular poll would.
	h.service.Refresh(entityID)
	w.WriteHeader(http.StatusAccepted)
}

// RegisterRoutes registers action routes with an HTTP mux.
func (h *ActionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/actions/call-time", func(w http.ResponseWriter, r *http.Request) {
		h.handle(w, r, "table_id", h.actions.StartCallTime)
	})
	mux.HandleFunc("/actions/cash-out", func(w http.ResponseWriter, r *http.Request) {
		h.handle(w, r, "table_id", h.actions.RequestCashOut)
	})
	mux.HandleFunc("/actions/register", func(w http.ResponseWriter, r *http.Request) {
		h.handle(w, r, "tournament_id", h.actions.Register)
	})
	mux.HandleFunc("/actions/rebuy", func(w http.ResponseWriter, r *http.Request) {
		h.handle(w, r, "tournament_id", h.actions.Rebuy)
	})
	mux.HandleFunc("/actions/reentry", func(w http.ResponseWriter, r *http.Request) {
		h.handle(w, r, "tournament_id", h.actions.Reentry)
	})
}
