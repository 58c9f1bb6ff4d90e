// Package reconciler держит клиентское состояние (список пользователей и ленту
// уведомлений) и сводит в него ответы REST и push-события в любом порядке.
package reconciler

import (
	"slices"
	"sort"
	"sync"
	"time"
)

type FollowStatus string

const (
	StatusNone      FollowStatus = ""
	StatusPending   FollowStatus = "pending"
	StatusFollowing FollowStatus = "following"
)

type UserEntry struct {
	ID           string
	Username     string
	Avatar       string
	FollowStatus FollowStatus
	FollowsYou   bool
}

type Notification struct {
	ID         string
	Type       string
	SenderID   string
	SenderName string
	JobID      string
	JobTitle   string
	Company    string
	CreatedAt  time.Time
}

// Snapshot - data события followStatusUpdate
type Snapshot struct {
	Following []string `json:"following"`
	Followers []string `json:"followers"`
}

// Transition - реальная смена статуса, на нее клиент показывает toast
type Transition struct {
	UserID   string
	Username string
	From     FollowStatus
	To       FollowStatus
}

type State struct {
	mu            sync.Mutex
	users         []UserEntry
	index         map[string]int
	notifications []Notification
	seen          map[string]struct{}
	// исходящие заявки без ответа
	outgoing map[string]struct{}
	now      func() time.Time
}

func New() *State {
	return &State{
		index:    make(map[string]int),
		seen:     make(map[string]struct{}),
		outgoing: make(map[string]struct{}),
		now:      time.Now,
	}
}

// ApplyUsers сливает результат GET /users. Статус из ответа сервера считается авторитетным
func (s *State) ApplyUsers(users []UserEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range users {
		if u.FollowStatus == StatusPending {
			s.outgoing[u.ID] = struct{}{}
		} else {
			delete(s.outgoing, u.ID)
		}

		if i, ok := s.index[u.ID]; ok {
			s.users[i] = u
			continue
		}
		s.index[u.ID] = len(s.users)
		s.users = append(s.users, u)
	}
}

// ApplyNotifications сливает результат GET /notifications, лента остается newest first
func (s *State) ApplyNotifications(list []Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range list {
		if _, dup := s.seen[n.ID]; dup {
			continue
		}
		s.seen[n.ID] = struct{}{}
		s.notifications = append(s.notifications, n)
	}
	sort.SliceStable(s.notifications, func(i, j int) bool {
		return s.notifications[i].CreatedAt.After(s.notifications[j].CreatedAt)
	})
}

// ApplyNotification добавляет push-уведомление в начало ленты, если его еще нет.
// Статусы подписок не меняет: они приходят только снапшотом
func (s *State) ApplyNotification(n Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[n.ID]; dup {
		return false
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	s.seen[n.ID] = struct{}{}
	s.notifications = append([]Notification{n}, s.notifications...)
	return true
}

func (s *State) ApplyFollowStatusUpdate(snapshot Snapshot) []Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	following := toSet(snapshot.Following)
	followers := toSet(snapshot.Followers)

	for id := range following {
		delete(s.outgoing, id)
	}

	var transitions []Transition
	for i := range s.users {
		u := &s.users[i]
		next := s.statusFor(u.ID, following)
		u.FollowsYou = has(followers, u.ID)
		if next == u.FollowStatus {
			continue
		}
		transitions = append(transitions, Transition{
			UserID:   u.ID,
			Username: u.Username,
			From:     u.FollowStatus,
			To:       next,
		})
		u.FollowStatus = next
	}
	return transitions
}

// MarkRequestSent - оптимистичный pending сразу после POST /follow/request
func (s *State) MarkRequestSent(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outgoing[userID] = struct{}{}
	if i, ok := s.index[userID]; ok && s.users[i].FollowStatus == StatusNone {
		s.users[i].FollowStatus = StatusPending
	}
}

func (s *State) statusFor(userID string, following map[string]struct{}) FollowStatus {
	switch {
	case has(following, userID):
		return StatusFollowing
	case has(s.outgoing, userID):
		return StatusPending
	default:
		return StatusNone
	}
}

func (s *State) Users() []UserEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users)
}

func (s *State) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notifications)
}

func (s *State) User(id string) (UserEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return UserEntry{}, false
	}
	return s.users[i], true
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func has(set map[string]struct{}, id string) bool {
	_, ok := set[id]
	return ok
}
