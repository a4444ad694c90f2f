package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/wiitel/telecom-ticketing/internal/presence"
)

const (
	frameTypePing    = "ping"
	frameTypePong    = "pong"
	frameTypeMessage = "message"
	frameTypeTyping  = "typing"
	frameTypeRead    = "read"

	frameTypeNewMessage  = "new_message"
	frameTypeMessageRead = "message_read"

	writeWait = 10 * time.Second
)

// inboundFrame is what clients send over the socket.
type inboundFrame struct {
	Type      string `json:"type"`
	To        string `json:"to,omitempty"`
	Body      string `json:"body,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// outboundFrame is what the server pushes. Notification pushes reuse the same
// envelope with Type "notification" and the payload in Data.
type outboundFrame struct {
	Type      string `json:"type"`
	From      string `json:"from,omitempty"`
	FromName  string `json:"from_name,omitempty"`
	Body      string `json:"body,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// NotificationFrame wraps a persisted notification for push delivery.
func NotificationFrame(payload any) any {
	return outboundFrame{Type: "notification", Data: payload}
}

// wsChannel adapts one websocket connection to the registry's Channel
// interface. Writes go through a buffered channel drained by a single pump
// goroutine; a full buffer means the consumer is too slow and the send fails,
// which triggers eviction upstream.
type wsChannel struct {
	conn *websocket.Conn
	send chan any
	done chan struct{}
}

func newWSChannel(conn *websocket.Conn, bufferSize int) *wsChannel {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &wsChannel{
		conn: conn,
		send: make(chan any, bufferSize),
		done: make(chan struct{}),
	}
}

func (c *wsChannel) Send(payload any) error {
	select {
	case <-c.done:
		return errors.New("channel closed")
	case c.send <- payload:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

func (c *wsChannel) Close() error {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	return c.conn.Close()
}

func (c *wsChannel) writePump() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(payload); err != nil {
				_ = c.Close()
				return
			}
		}
	}
}

// Handler serves the websocket endpoint.
type Handler struct {
	registry *Registry
	presence *presence.Tracker
	bufSize  int
	logger   *zap.Logger
}

// NewHandler builds the websocket handler.
func NewHandler(registry *Registry, tracker *presence.Tracker, bufSize int, logger *zap.Logger) *Handler {
	return &Handler{registry: registry, presence: tracker, bufSize: bufSize, logger: logger}
}

// Upgrade gates the route: only genuine websocket upgrade requests proceed to
// the socket handler. Auth middleware runs before this and stores the
// principal in Locals.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve returns the fiber handler running the socket session.
func (h *Handler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(string)
		userName, _ := conn.Locals("user_name").(string)
		if userID == "" {
			_ = conn.Close()
			return
		}
		h.session(conn, userID, userName)
	})
}

func (h *Handler) session(conn *websocket.Conn, userID, userName string) {
	ch := newWSChannel(conn, h.bufSize)
	h.registry.Connect(ch, userID)
	h.presence.Touch(context.Background(), userID)
	h.logger.Info("websocket connected", zap.String("user_id", userID))

	go ch.writePump()
	defer func() {
		h.registry.Disconnect(ch)
		_ = ch.Close()
		h.logger.Info("websocket disconnected", zap.String("user_id", userID))
	}()

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", zap.String("user_id", userID), zap.Error(err))
			}
			return
		}
		h.handleFrame(ch, frame, userID, userName)
	}
}

func (h *Handler) handleFrame(ch *wsChannel, frame inboundFrame, userID, userName string) {
	switch frame.Type {
	case frameTypePing:
		h.presence.Touch(context.Background(), userID)
		_ = ch.Send(outboundFrame{Type: frameTypePong})
	case frameTypeMessage:
		if frame.To == "" || frame.Body == "" {
			return
		}
		h.registry.SendToUser(frame.To, outboundFrame{
			Type:     frameTypeNewMessage,
			From:     userID,
			FromName: userName,
			Body:     frame.Body,
		})
	case frameTypeTyping:
		if frame.To == "" {
			return
		}
		h.registry.SendToUser(frame.To, outboundFrame{
			Type:     frameTypeTyping,
			From:     userID,
			FromName: userName,
		})
	case frameTypeRead:
		if frame.To == "" || frame.MessageID == "" {
			return
		}
		h.registry.SendToUser(frame.To, outboundFrame{
			Type:      frameTypeMessageRead,
			From:      userID,
			MessageID: frame.MessageID,
		})
	default:
		h.logger.Debug("unknown frame type",
			zap.String("user_id", userID),
			zap.String("type", frame.Type))
	}
}
