package api

import (
	"context"
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocketSink writes broadcast envelopes to one connection.
// The fan-out calls Consume sequentially but pings come from another goroutine.
type WebSocketSink struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	writeWait time.Duration
}

func NewWebSocketSink(conn *websocket.Conn, writeWait time.Duration) *WebSocketSink {
	return &WebSocketSink{conn: conn, writeWait: writeWait}
}

func (s *WebSocketSink) Consume(ctx context.Context, e event.DomainEvent) error {
	deadline := time.Now().Add(s.writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return s.conn.WriteJSON(NewEnvelope(e))
}

func (s *WebSocketSink) ping() error {
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeWait))
}

// Subscribe upgrades the request and streams the room's events until the peer leaves.
// The optional kinds query parameter filters broadcast kinds, e.g. ?kinds=drink,ranking.
func (h *Handler) Subscribe(c *gin.Context) {
	code := domain.RoomCode(c.Param("code"))
	if _, err := h.service.RoomInfo(code); err != nil {
		h.writeError(c, err)
		return
	}
	var kinds []string
	if raw := c.Query("kinds"); raw != "" {
		kinds = strings.Split(raw, ",")
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already answered the client
		h.log.Warn("WebSocket upgrade failed", "room", code, "error", err)
		return
	}
	defer conn.Close()

	subscriberID := uuid.NewString()
	sink := NewWebSocketSink(conn, h.cfg.WriteWait)
	if err := h.service.Subscribe(subscriberID, code, sink, kinds); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(h.cfg.WriteWait))
		return
	}
	defer h.service.Unsubscribe(subscriberID, code)
	h.log.Debug("Subscriber connected", "room", code, "subscriber", subscriberID)

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(sink, done)
	h.drain(conn)
	h.log.Debug("Subscriber disconnected", "room", code, "subscriber", subscriberID)
}

// drain reads until the connection closes. Inbound messages are ignored.
func (h *Handler) drain(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("WebSocket read error", "error", err)
			}
			return
		}
	}
}

func (h *Handler) keepAlive(sink *WebSocketSink, done <-chan struct{}) {
	ticker := time.NewTicker(h.cfg.PongWait * 9 / 10)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := sink.ping(); err != nil {
				return
			}
		}
	}
}
