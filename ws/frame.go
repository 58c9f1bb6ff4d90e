// Package ws - real-time канал: комнаты, websocket-сессии и брокер между инстансами
package ws

import "encoding/json"

// события сервер -> клиент
const (
	EventNotification       = "notification"
	EventFollowStatusUpdate = "followStatusUpdate"
	EventNewMessage         = "newMessage"
	EventNewGroupMessage    = "newGroupMessage"
	EventError              = "error"
)

// события клиент -> сервер
const (
	EventJoinUser   = "joinUser"
	EventJoinGroups = "joinGroups"
)

// Frame - кадр протокола в обе стороны
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func encodeFrame(event string, payload any) ([]byte, error) {
	return json.Marshal(outFrame{Event: event, Data: payload})
}

func UserRoom(userID string) string {
	return "user:" + userID
}

func GroupRoom(groupID string) string {
	return "group:" + groupID
}

// ErrorPayload - data события error
type ErrorPayload struct {
	Message string `json:"message"`
}
