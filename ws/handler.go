package ws

import (
	"context"
	"net/http"
	"slices"

	"jobnest_backend/internal/logger"
	"jobnest_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub      *Hub
	events   EventHandler
	opts     Options
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *Hub, events EventHandler, opts Options, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		events: events,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// ServeWS - GET /ws, пользователь уже проверен AuthMiddleware
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Not authorized"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		logger.CtxWarn(c.Request.Context(), "WebSocket upgrade error", "error", err.Error())
		return
	}

	session := NewSession(h.hub, conn, userID, h.opts)
	if !h.hub.Register(session) {
		conn.Close()
		return
	}

	// контекст запроса отменяется по выходу из хендлера, сессия живет дольше
	ctx := logger.WithSessionID(context.WithoutCancel(c.Request.Context()), session.ID)
	logger.CtxInfo(ctx, "WebSocket client connected")

	go session.writePump()
	go session.readPump(ctx, h.events)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
