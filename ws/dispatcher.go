package ws

import (
	"context"
	"encoding/json"

	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
)

// SnapshotProvider - источник followStatusUpdate для joinUser
type SnapshotProvider interface {
	Snapshot(ctx context.Context, userID string) (models.FollowSnapshot, error)
}

// GroupMembership - группы, в которые пользователь вправе войти
type GroupMembership interface {
	GroupIDsFor(ctx context.Context, userID string) ([]string, error)
}

// Dispatcher обрабатывает joinUser и joinGroups
type Dispatcher struct {
	hub       *Hub
	snapshots SnapshotProvider
	groups    GroupMembership
}

func NewDispatcher(hub *Hub, snapshots SnapshotProvider, groups GroupMembership) *Dispatcher {
	return &Dispatcher{hub: hub, snapshots: snapshots, groups: groups}
}

func (d *Dispatcher) HandleEvent(ctx context.Context, s *Session, frame Frame) {
	switch frame.Event {
	case EventJoinUser:
		d.joinUser(ctx, s, frame.Data)
	case EventJoinGroups:
		d.joinGroups(ctx, s, frame.Data)
	default:
		d.hub.SendTo(s, EventError, ErrorPayload{Message: "unknown event: " + frame.Event})
	}
}

func (d *Dispatcher) joinUser(ctx context.Context, s *Session, data json.RawMessage) {
	var userID string
	if err := json.Unmarshal(data, &userID); err != nil || userID == "" {
		d.hub.SendTo(s, EventError, ErrorPayload{Message: "joinUser expects a user id"})
		return
	}
	// в свою комнату можно войти только под своим токеном
	if userID != s.UserID {
		logger.CtxWarn(ctx, "joinUser identity mismatch", "requested", userID)
		d.hub.SendTo(s, EventError, ErrorPayload{Message: "cannot join another user's room"})
		return
	}

	if !d.hub.Join(s, UserRoom(userID)) {
		return
	}

	snapshot, err := d.snapshots.Snapshot(ctx, userID)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to compute follow snapshot on join", err)
		return
	}
	d.hub.SendTo(s, EventFollowStatusUpdate, snapshot)
}

func (d *Dispatcher) joinGroups(ctx context.Context, s *Session, data json.RawMessage) {
	var requested []string
	if err := json.Unmarshal(data, &requested); err != nil {
		d.hub.SendTo(s, EventError, ErrorPayload{Message: "joinGroups expects a list of group ids"})
		return
	}
	if len(requested) == 0 {
		return
	}

	memberOf, err := d.groups.GroupIDsFor(ctx, s.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to load group membership", err)
		return
	}
	allowed := make(map[string]struct{}, len(memberOf))
	for _, id := range memberOf {
		allowed[id] = struct{}{}
	}

	for _, groupID := range requested {
		// чужие группы молча пропускаем
		if _, ok := allowed[groupID]; !ok {
			continue
		}
		d.hub.Join(s, GroupRoom(groupID))
	}
}
