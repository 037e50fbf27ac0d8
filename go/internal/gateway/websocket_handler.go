package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for dashboard clients.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	service           *Service
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(cm *ConnectionManager, service *Service) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		service:           service,
	}
}

// HandleSessionConnection handles WebSocket connections for one table session.
func (h *WebSocketHandler) HandleSessionConnection(w http.ResponseWriter, r *http.Request) {
	tableID, playerID, ok := h.parseIDs(w, r, "table_id")
	if !ok {
		return
	}

	h.service.EnsureSession(tableID)
	h.upgrade(w, r, playerID, tableID)
}

// HandleTournamentConnection handles WebSocket connections for one tournament clock.
func (h *WebSocketHandler) HandleTournamentConnection(w http.ResponseWriter, r *http.Request) {
	tournamentID, playerID, ok := h.parseIDs(w, r, "tournament_id")
	if !ok {
		return
	}

	h.service.EnsureTournament(tournamentID)
	h.upgrade(w, r, playerID, tournamentID)
}

func (h *WebSocketHandler) parseIDs(w http.ResponseWriter, r *http.Request, idParam string) (uuid.UUID, string, bool) {
	idStr := r.URL.Query().Get(idParam)
	if idStr == "" {
		http.Error(w, idParam+" is required", http.StatusBadRequest)
		return uuid.Nil, "", false
	}

	entityID, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid "+idParam+" format", http.StatusBadRequest)
		return uuid.Nil, "", false
	}

	// In production the player id would come from the session token.
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		playerID = "anonymous"
	}

	return entityID, playerID, true
}

func (h *WebSocketHandler) upgrade(w http.ResponseWriter, r *http.Request, playerID string, entityID uuid.UUID) {
	if err := h.connectionManager.UpgradeConnection(w, r, playerID, entityID); err != nil {
		log.Error().
			Err(err).
			Str("entity_id", entityID.String()).
			Str("player_id", playerID).
			Msg("failed to upgrade WebSocket connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
	}
}

// HandleConnectionStats returns statistics about active connections.
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	total, watched := h.connectionManager.GetConnectionStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"total_connections": total,
		"watched_entities":  watched,
	})
}

// RegisterRoutes registers WebSocket routes with an HTTP mux.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/session", h.HandleSessionConnection)
	mux.HandleFunc("/ws/tournament", h.HandleTournamentConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
