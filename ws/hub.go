package ws

import (
	"context"
	"sync"

	"jobnest_backend/internal/logger"
)

type joinRequest struct {
	session *Session
	room    string
	done    chan bool
}

// Hub хранит подписки room -> sessions. Все изменения карт идут через Run,
// Emit только читает под RLock
type Hub struct {
	rooms    map[string]map[*Session]struct{}
	sessions map[*Session]map[string]struct{}
	mu       sync.RWMutex

	register   chan *Session
	unregister chan *Session
	join       chan joinRequest
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Session]struct{}),
		sessions:   make(map[*Session]map[string]struct{}),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		join:       make(chan joinRequest),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			logger.Info("Push hub stopped")
			return

		case s := <-h.register:
			h.mu.Lock()
			h.sessions[s] = make(map[string]struct{})
			count := len(h.sessions)
			h.mu.Unlock()
			logger.Debug("Session registered", "session_id", s.ID, "user_id", s.UserID, "total", count)

		case s := <-h.unregister:
			h.remove(s)

		case req := <-h.join:
			req.done <- h.addToRoom(req.session, req.room)
		}
	}
}

// Register блокируется, пока Run не примет сессию; false - хаб остановлен
func (h *Hub) Register(s *Session) bool {
	select {
	case h.register <- s:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Join добавляет сессию в комнату. Сессия может быть в нескольких комнатах
func (h *Hub) Join(s *Session, room string) bool {
	req := joinRequest{session: s, room: room, done: make(chan bool, 1)}
	select {
	case h.join <- req:
		return <-req.done
	case <-h.done:
		return false
	}
}

func (h *Hub) addToRoom(s *Session, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	joined, ok := h.sessions[s]
	if !ok {
		return false
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}
	joined[room] = struct{}{}
	return true
}

// remove выводит сессию из всех комнат и закрывает ее канал отправки
func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	joined, ok := h.sessions[s]
	if !ok {
		return
	}
	for room := range joined {
		members := h.rooms[room]
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.sessions, s)
	close(s.send)
	logger.Debug("Session unregistered", "session_id", s.ID, "user_id", s.UserID, "total", len(h.sessions))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.sessions {
		close(s.send)
	}
	h.sessions = make(map[*Session]map[string]struct{})
	h.rooms = make(map[string]map[*Session]struct{})
}

// Emit рассылает событие всем сессиям комнаты и возвращает число доставленных.
// Пустая комната - не ошибка
func (h *Hub) Emit(room, event string, payload any) int {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		logger.PushLog(event, room, 0, err)
		return 0
	}
	return h.deliver(room, event, frame)
}

func (h *Hub) deliver(room, event string, frame []byte) int {
	var slow []*Session
	delivered := 0

	h.mu.RLock()
	for s := range h.rooms[room] {
		select {
		case s.send <- frame:
			delivered++
		default:
			// буфер заполнен - отключаем, событие для нее теряется
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		logger.Warn("Session disconnected due to full send buffer", "session_id", s.ID, "user_id", s.UserID)
		h.Unregister(s)
	}
	logger.PushLog(event, room, delivered, nil)
	return delivered
}

// SendTo отправляет событие одной сессии (ответ на joinUser, ошибки протокола)
func (h *Hub) SendTo(s *Session, event string, payload any) bool {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		logger.PushLog(event, s.ID, 0, err)
		return false
	}

	h.mu.RLock()
	_, registered := h.sessions[s]
	sent := false
	if registered {
		select {
		case s.send <- frame:
			sent = true
		default:
		}
	}
	h.mu.RUnlock()

	if registered && !sent {
		h.Unregister(s)
	}
	return sent
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// IsUserOnline - есть ли у пользователя хотя бы одна сессия в его комнате
func (h *Hub) IsUserOnline(userID string) bool {
	return h.RoomSize(UserRoom(userID)) > 0
}
