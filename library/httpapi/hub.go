package httpapi

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 512
	sendBufferSize = 32

	logMsgSubscribeFailed    = "notification subscription failed"
	logMsgNotificationFailed = "encoding a notification failed"
	logMsgSubscriberDropped  = "dropped slow notification subscriber"
	logAttrEventType         = "event_type"
	logAttrUserID            = "user_id"
)

// ErrHubClosed is returned by Serve after Close.
var ErrHubClosed = errors.New("notification hub is closed")

// notification is the websocket message for one recorded domain event.
type notification struct {
	EventType  string           `json:"eventType"`
	OccurredAt time.Time        `json:"occurredAt"`
	IsError    bool             `json:"isError"`
	Payload    core.DomainEvent `json:"payload"`
}

type subscriber struct {
	actor shell.Actor
	conn  *websocket.Conn
	send  chan []byte
}

// Hub fans recorded domain events out to websocket subscribers. It implements shell.EventPublisher.
// A subscriber whose send buffer is full is disconnected instead of slowing down the publisher.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	closed      bool
	logger      shell.ContextualLogger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithHubLogger sets the logger for dropped subscribers and encoding failures.
func WithHubLogger(logger shell.ContextualLogger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// NewHub creates an empty Hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subscribers: make(map[*subscriber]struct{}),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Publish sends every non-nil event to all current subscribers.
func (h *Hub) Publish(ctx context.Context, events ...core.DomainEvent) {
	for _, event := range events {
		if event == nil {
			continue
		}

		message, err := json.Marshal(notification{
			EventType:  event.IsEventType(),
			OccurredAt: event.HasOccurredAt(),
			IsError:    event.IsErrorEvent(),
			Payload:    event,
		})
		if err != nil {
			h.warn(ctx, logMsgNotificationFailed, logAttrEventType, event.IsEventType(), logAttrError, err.Error())
			continue
		}

		h.broadcast(ctx, message)
	}
}

func (h *Hub) broadcast(ctx context.Context, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subscribers {
		select {
		case s.send <- message:
		default:
			h.remove(s)
			h.warn(ctx, logMsgSubscriberDropped, logAttrUserID, s.actor.UserID.String())
		}
	}
}

// Serve streams notifications to an upgraded connection until it ends. It blocks, and the
// connection is closed when it returns.
func (h *Hub) Serve(conn *websocket.Conn, actor shell.Actor) error {
	s := &subscriber{actor: actor, conn: conn, send: make(chan []byte, sendBufferSize)}

	if !h.add(s) {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeWait),
		)
		_ = conn.Close()

		return ErrHubClosed
	}

	written := make(chan struct{})
	go func() {
		defer close(written)
		h.writeLoop(s)
	}()

	h.readLoop(s)
	<-written // the connection must not be touched once Serve has returned

	return nil
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers)
}

// Close disconnects all subscribers and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	for s := range h.subscribers {
		h.remove(s)
	}
}

func (h *Hub) add(s *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	h.subscribers[s] = struct{}{}

	return true
}

// remove must be called with mu held. Closing send makes the write loop close the connection.
func (h *Hub) remove(s *subscriber) {
	if _, ok := h.subscribers[s]; !ok {
		return
	}

	delete(h.subscribers, s)
	close(s.send)
}

func (h *Hub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.remove(s)
}

// readLoop discards inbound messages and keeps the read deadline alive on pongs.
func (h *Hub) readLoop(s *subscriber) {
	defer h.unsubscribe(s)

	s.conn.SetReadLimit(maxInboundSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) warn(ctx context.Context, msg string, args ...any) {
	if h.logger != nil {
		h.logger.WarnContext(ctx, msg, args...)
	}
}
