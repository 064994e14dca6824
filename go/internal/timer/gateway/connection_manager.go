package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/debatify/go/internal/timer"
	"github.com/mcdev12/debatify/go/internal/timer/view"
)

// TimerService is the shared countdown the gateway fans out.
type TimerService interface {
	view.Controller
	Subscribe(fn func(timer.State)) func()
	Stats() timer.Stats
}

// ConnectionManager manages WebSocket connections. Every connection is a
// mounted view with its own floating indicator over the same countdown.
type ConnectionManager struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	// Upgrader for WebSocket connections
	upgrader websocket.Upgrader

	config ConnectionConfig
	timer  TimerService

	broadcastCh chan timer.State

	// encode builds the TimerState event for one view.
	encode func(s timer.State, ind view.IndicatorView, at time.Time) ([]byte, error)
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	ID        string
	Conn      *websocket.Conn
	Send      chan []byte
	Manager   *ConnectionManager
	Indicator *view.Indicator
	Panel     *view.Panel

	ConnectedAt time.Time
	LastPing    time.Time
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
	CheckOrigin     func(r *http.Request) bool
}

// ConnectionStats is reported on /ws/stats.
type ConnectionStats struct {
	TotalConnections int         `json:"total_connections"`
	ExpandedViews    int         `json:"expanded_views"`
	Timer            timer.Stats `json:"timer"`
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      64,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(svc TimerService, config ConnectionConfig) *ConnectionManager {
	if config.SendBuffer <= 0 {
		config.SendBuffer = 64
	}
	return &ConnectionManager{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		timer:       svc,
		broadcastCh: make(chan timer.State, 256),
		encode:      newStateEvent,
	}
}

// Start subscribes to the countdown once and fans each snapshot out until ctx
// is done.
func (cm *ConnectionManager) Start(ctx context.Context) {
	unsubscribe := cm.timer.Subscribe(func(s timer.State) {
		select {
		case cm.broadcastCh <- s:
		default:
			log.Warn().Int("remaining", s.Remaining).Msg("broadcast channel full, dropping timer state")
		}
	})
	defer unsubscribe()

	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			cm.closeAll()
			return
		case s := <-cm.broadcastCh:
			cm.handleBroadcast(s)
		}
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and mounts a new
// view on it.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	now := time.Now()
	connection := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBuffer),
		Manager:     cm,
		Indicator:   view.NewIndicator(cm.timer),
		Panel:       view.NewPanel(cm.timer),
		ConnectedAt: now,
		LastPing:    now,
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	connection.sendCurrent()

	log.Info().
		Str("connection_id", connection.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connection established")

	return nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connections[conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Int("total_connections", len(cm.connections)).
		Msg("connection registered")
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.connections[conn]; !exists {
		return
	}
	delete(cm.connections, conn)
	close(conn.Send)

	log.Info().
		Str("connection_id", conn.ID).
		Dur("connected_for", time.Since(conn.ConnectedAt)).
		Msg("connection unregistered")
}

func (cm *ConnectionManager) closeAll() {
	for _, conn := range cm.snapshot() {
		cm.unregisterConnection(conn)
	}
}

func (cm *ConnectionManager) snapshot() []*Connection {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	out := make([]*Connection, 0, len(cm.connections))
	for conn := range cm.connections {
		out = append(out, conn)
	}
	return out
}

// deliver queues data on a live connection. It reports false when the
// connection's buffer is full.
func (cm *ConnectionManager) deliver(conn *Connection, data []byte) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.connections[conn] {
		return true
	}
	select {
	case conn.Send <- data:
		return true
	default:
		return false
	}
}

// handleBroadcast renders s for every view and queues it.
func (cm *ConnectionManager) handleBroadcast(s timer.State) {
	targets := cm.snapshot()
	at := time.Now()

	for _, conn := range targets {
		data, err := cm.encode(s, conn.Indicator.Render(s), at)
		if err != nil {
			log.Error().Err(err).Str("connection_id", conn.ID).Msg("failed to marshal timer event for broadcast")
			continue
		}
		if !cm.deliver(conn, data) {
			// Connection is slow/dead, close it
			log.Warn().
				Str("connection_id", conn.ID).
				Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().
		Int("remaining", s.Remaining).
		Bool("running", s.Running).
		Int("connections", len(targets)).
		Msg("timer state broadcasted")
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	conns := cm.snapshot()
	stats := ConnectionStats{
		TotalConnections: len(conns),
		Timer:            cm.timer.Stats(),
	}
	for _, conn := range conns {
		if conn.Indicator.Expanded() {
			stats.ExpandedViews++
		}
	}
	return stats
}

// sendCurrent queues the current state for this connection only.
func (c *Connection) sendCurrent() {
	s := c.Manager.timer.Snapshot()
	data, err := c.Manager.encode(s, c.Indicator.Render(s), time.Now())
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to marshal timer event")
		return
	}
	if !c.Manager.deliver(c, data) {
		log.Warn().Str("connection_id", c.ID).Msg("connection send buffer full, dropping reply")
	}
}

// writePump handles sending messages to the WebSocket connection
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
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
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

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage runs a client command. Invalid commands are logged and
// ignored.
func (c *Connection) handleClientMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Debug().Err(err).Str("connection_id", c.ID).Msg("ignoring malformed client message")
		return
	}

	svc := c.Manager.timer
	switch msg.Action {
	case ActionStart:
		c.press(msg.Source, view.ControlStart)
	case ActionPause:
		c.press(msg.Source, view.ControlPause)
	case ActionReset:
		c.press(msg.Source, view.ControlReset)
	case ActionSetPreset:
		if err := svc.SetPreset(msg.Seconds); err != nil {
			if !errors.Is(err, timer.ErrInvalidPreset) {
				log.Warn().Err(err).Str("connection_id", c.ID).Msg("failed to set preset")
				return
			}
			log.Debug().Int("seconds", msg.Seconds).Str("connection_id", c.ID).Msg("ignoring invalid preset")
		}
	case ActionToggle:
		c.Indicator.Toggle()
		c.sendCurrent()
	default:
		log.Debug().
			Str("connection_id", c.ID).
			Str("action", string(msg.Action)).
			Msg("ignoring unknown client action")
	}
}

// press runs a control through the widget that sent it.
func (c *Connection) press(source ClientSource, control view.Control) {
	var err error
	switch source {
	case SourceIndicator:
		err = c.Indicator.Press(control)
	case SourcePanel, "":
		err = c.Panel.Press(control)
	default:
		log.Debug().Str("connection_id", c.ID).Str("source", string(source)).Msg("ignoring command from unknown source")
		return
	}
	if err != nil {
		log.Debug().
			Err(err).
			Str("connection_id", c.ID).
			Str("source", string(source)).
			Str("control", string(control)).
			Msg("ignoring unavailable control")
	}
}
