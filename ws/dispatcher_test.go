package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"jobnest_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSnapshots map[string]models.FollowSnapshot

func (s stubSnapshots) Snapshot(_ context.Context, userID string) (models.FollowSnapshot, error) {
	return s[userID], nil
}

type stubGroups map[string][]string

func (g stubGroups) GroupIDsFor(_ context.Context, userID string) ([]string, error) {
	return g[userID], nil
}

func frameOf(t *testing.T, event string, data any) Frame {
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return Frame{Event: event, Data: raw}
}

func TestDispatcher_JoinUserSendsSnapshot(t *testing.T) {
	hub := startHub(t)
	s := newTestSession(t, hub, "u1", 8)
	d := NewDispatcher(hub, stubSnapshots{
		"u1": {Following: []string{"u2"}, Followers: []string{"u3"}},
	}, stubGroups{})

	d.HandleEvent(context.Background(), s, frameOf(t, EventJoinUser, "u1"))

	assert.Equal(t, 1, hub.RoomSize(UserRoom("u1")))
	f := readFrame(t, s)
	assert.Equal(t, EventFollowStatusUpdate, f.Event)
	assert.JSONEq(t, `{"following":["u2"],"followers":["u3"]}`, string(f.Data))
}

func TestDispatcher_JoinUserRejectsForeignRoom(t *testing.T) {
	hub := startHub(t)
	s := newTestSession(t, hub, "u1", 8)
	d := NewDispatcher(hub, stubSnapshots{}, stubGroups{})

	d.HandleEvent(context.Background(), s, frameOf(t, EventJoinUser, "u2"))

	assert.Equal(t, 0, hub.RoomSize(UserRoom("u2")))
	f := readFrame(t, s)
	assert.Equal(t, EventError, f.Event)
}

func TestDispatcher_JoinGroupsSkipsForeignGroups(t *testing.T) {
	hub := startHub(t)
	s := newTestSession(t, hub, "u1", 8)
	d := NewDispatcher(hub, stubSnapshots{}, stubGroups{"u1": {"g1", "g2"}})

	d.HandleEvent(context.Background(), s, frameOf(t, EventJoinGroups, []string{"g1", "g3"}))

	assert.Equal(t, 1, hub.RoomSize(GroupRoom("g1")))
	assert.Equal(t, 0, hub.RoomSize(GroupRoom("g2")))
	assert.Equal(t, 0, hub.RoomSize(GroupRoom("g3")))

	select {
	case <-s.send:
		t.Fatal("ответа на joinGroups нет")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDispatcher_UnknownEvent(t *testing.T) {
	hub := startHub(t)
	s := newTestSession(t, hub, "u1", 8)
	d := NewDispatcher(hub, stubSnapshots{}, stubGroups{})

	d.HandleEvent(context.Background(), s, Frame{Event: "leaveRoom"})
	assert.Equal(t, EventError, readFrame(t, s).Event)
}
