package ws

import (
	"context"
	"encoding/json"
	"time"

	"jobnest_backend/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Options - параметры keepalive и буферов сессии
type Options struct {
	SendBuffer     int
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
}

func DefaultOptions() Options {
	return Options{
		SendBuffer:     256,
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 64 * 1024,
	}
}

func (o Options) pingPeriod() time.Duration {
	return o.PongWait * 9 / 10
}

// Session - одно websocket-соединение аутентифицированного пользователя
type Session struct {
	ID     string
	UserID string

	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	opts Options
}

func NewSession(hub *Hub, conn *websocket.Conn, userID string, opts Options) *Session {
	return &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, opts.SendBuffer),
		hub:    hub,
		opts:   opts,
	}
}

// EventHandler обрабатывает события, пришедшие от клиента
type EventHandler interface {
	HandleEvent(ctx context.Context, s *Session, frame Frame)
}

func (s *Session) readPump(ctx context.Context, handler EventHandler) {
	defer func() {
		s.hub.Unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(s.opts.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.CtxWarn(ctx, "WebSocket read error", "error", err.Error())
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.hub.SendTo(s, EventError, ErrorPayload{Message: "malformed frame"})
			continue
		}
		handler.HandleEvent(ctx, s, frame)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(s.opts.pingPeriod())
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if !ok {
				// хаб закрыл канал
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
