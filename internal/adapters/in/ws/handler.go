// Package ws upgrades HTTP requests to WebSocket subscriber channels and
// registers them with the real-time bus.
package ws

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"orderapi/internal/adapters/out/realtime"
	"orderapi/internal/core/ports"

	"github.com/gorilla/websocket"
)

const (
	DefaultSendBuffer = 32

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Registry is the subset of the bus the handler needs.
type Registry interface {
	Register(role ports.Role, userID string, ch realtime.Channel)
	Unregister(role ports.Role, ch realtime.Channel)
}

type Handler struct {
	upgrader   websocket.Upgrader
	registry   Registry
	sendBuffer int
	logger     *slog.Logger
}

func NewHandler(registry Registry, sendBuffer int, logger *slog.Logger) *Handler {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}

	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		registry:   registry,
		sendBuffer: sendBuffer,
		logger:     logger.With("component", "ws"),
	}
}

// ServeHTTP upgrades the request and serves the connection until the peer
// goes away. Query parameters: role (defaults to guest) and userId.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	role := ports.ParseRole(r.URL.Query().Get("role"))
	userID := r.URL.Query().Get("userId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newConnection(conn, h.sendBuffer)
	go c.writePump(h.logger)

	h.registry.Register(role, userID, c)
	defer h.registry.Unregister(role, c)

	c.readPump(h.logger)
}

var _ realtime.Channel = (*connection)(nil)

// connection owns a bounded outbound queue drained by writePump, so a slow
// peer never blocks a notifier.
type connection struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu     sync.RWMutex
	closed bool
}

func newConnection(conn *websocket.Conn, buffer int) *connection {
	return &connection{
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

func (c *connection) Send(payload []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return realtime.ErrChannelClosed
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return realtime.ErrBufferFull
	}
}

func (c *connection) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

func (c *connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	_ = c.conn.Close()
}

// readPump discards inbound messages; it only exists to process control
// frames and to notice when the peer disconnects.
func (c *connection) readPump(logger *slog.Logger) {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket closed unexpectedly", "error", err)
			}
			return
		}
		logger.Debug("inbound websocket message ignored", "size", len(message))
	}
}

func (c *connection) writePump(logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
