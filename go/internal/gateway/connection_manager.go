package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ConnectionManager manages WebSocket connections for dashboard clients,
// pooled by the entity (table or tournament) they watch.
type ConnectionManager struct {
	entityConnections map[uuid.UUID]map[*Connection]bool
	mu                sync.RWMutex

	upgrader websocket.Upgrader

	config ConnectionConfig

	broadcastCh chan BroadcastMessage

	// onFirst / onLast fire when an entity gains its first watcher or loses
	// its last one; the service uses them to start/stop ticking.
	onFirst func(entityID uuid.UUID)
	onLast  func(entityID uuid.UUID)
}

// Connection represents a WebSocket connection to a dashboard client.
type Connection struct {
	ID       string
	PlayerID string
	EntityID uuid.UUID
	Conn     *websocket.Conn
	Send     chan []byte
	Manager  *ConnectionManager

	ConnectedAt time.Time
	LastPing    time.Time
}

// ConnectionConfig holds configuration for WebSocket connections.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// BroadcastMessage represents a message to broadcast to connections.
type BroadcastMessage struct {
	EntityID uuid.UUID
	Event    *DashboardEvent
	PlayerID string // Optional: if set, only send to this player's connections
}

// DefaultConnectionConfig returns default WebSocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		entityConnections: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan BroadcastMessage, 1000),
	}
}

// SetWatcherHooks registers callbacks for the first watcher arriving and the
// last watcher leaving an entity. Must be called before serving connections.
func (cm *ConnectionManager) SetWatcherHooks(onFirst, onLast func(entityID uuid.UUID)) {
	cm.onFirst = onFirst
	cm.onLast = onLast
}

// Start begins processing broadcast messages.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, playerID string, entityID uuid.UUID) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		PlayerID:    playerID,
		EntityID:    entityID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("player_id", playerID).
		Str("entity_id", entityID.String()).
		Msg("WebSocket connection established")

	return nil
}

// registerConnection adds a connection to the manager.
func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	first := cm.entityConnections[conn.EntityID] == nil
	if first {
		cm.entityConnections[conn.EntityID] = make(map[*Connection]bool)
	}
	cm.entityConnections[conn.EntityID][conn] = true
	total := len(cm.entityConnections[conn.EntityID])
	cm.mu.Unlock()

	if first && cm.onFirst != nil {
		cm.onFirst(conn.EntityID)
	}

	log.Debug().
		Str("connection_id", conn.ID).
		Str("entity_id", conn.EntityID.String()).
		Int("total_connections", total).
		Msg("connection registered")
}

// unregisterConnection removes a connection from the manager.
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	last := false
	if connections, exists := cm.entityConnections[conn.EntityID]; exists {
		if _, exists := connections[conn]; exists {
			delete(connections, conn)
			close(conn.Send)

			if len(connections) == 0 {
				delete(cm.entityConnections, conn.EntityID)
				last = true
			}

			log.Info().
				Str("connection_id", conn.ID).
				Str("player_id", conn.PlayerID).
				Str("entity_id", conn.EntityID.String()).
				Msg("connection unregistered")
		}
	}
	cm.mu.Unlock()

	if last && cm.onLast != nil {
		cm.onLast(conn.EntityID)
	}
}

// BroadcastToEntity sends an event to all connections watching an entity.
func (cm *ConnectionManager) BroadcastToEntity(entityID uuid.UUID, event *DashboardEvent) {
	select {
	case cm.broadcastCh <- BroadcastMessage{EntityID: entityID, Event: event}:
	default:
		log.Warn().Str("entity_id", entityID.String()).Msg("broadcast channel full, dropping message")
	}
}

// BroadcastToPlayer sends an event to a specific player's connections.
func (cm *ConnectionManager) BroadcastToPlayer(entityID uuid.UUID, playerID string, event *DashboardEvent) {
	select {
	case cm.broadcastCh <- BroadcastMessage{EntityID: entityID, Event: event, PlayerID: playerID}:
	default:
		log.Warn().
			Str("entity_id", entityID.String()).
			Str("player_id", playerID).
			Msg("broadcast channel full, dropping player message")
	}
}

// handleBroadcast processes a broadcast message.
func (cm *ConnectionManager) handleBroadcast(message BroadcastMessage) {
	cm.mu.RLock()
	connections, exists := cm.entityConnections[message.EntityID]
	if !exists {
		cm.mu.RUnlock()
		return
	}

	// Snapshot the connection set to avoid holding the lock during sends.
	var targetConnections []*Connection
	for conn := range connections {
		if message.PlayerID != "" && conn.PlayerID != message.PlayerID {
			continue
		}
		targetConnections = append(targetConnections, conn)
	}
	cm.mu.RUnlock()

	eventData, err := json.Marshal(message.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targetConnections {
		select {
		case conn.Send <- eventData:
		default:
			// Connection is slow/dead, close it
			log.Warn().
				Str("connection_id", conn.ID).
				Str("player_id", conn.PlayerID).
				Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}
}

// WatchedEntities returns the ids currently watched by at least one client.
func (cm *ConnectionManager) WatchedEntities() []uuid.UUID {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(cm.entityConnections))
	for id := range cm.entityConnections {
		ids = append(ids, id)
	}
	return ids
}

// GetConnectionStats returns statistics about active connections.
func (cm *ConnectionManager) GetConnectionStats() (totalConnections, watchedEntities int) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	for _, connections := range cm.entityConnections {
		totalConnections += len(connections)
	}
	return totalConnections, len(cm.entityConnections)
}

// writePump handles sending messages to the WebSocket connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				// Channel was closed
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
			c.LastPing = time.Now()
		}
	}
}

// readPump handles reading messages from the WebSocket connection.
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		log.Debug().
			Str("connection_id", c.ID).
			Str("player_id", c.PlayerID).
			RawJSON("message", message).
			Msg("received client message")
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
