package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func newTestSession(t *testing.T, hub *Hub, userID string, buffer int) *Session {
	t.Helper()
	opts := DefaultOptions()
	opts.SendBuffer = buffer
	s := NewSession(hub, nil, userID, opts)
	require.True(t, hub.Register(s))
	return s
}

func readFrame(t *testing.T, s *Session) outFrameJSON {
	t.Helper()
	select {
	case raw, ok := <-s.send:
		require.True(t, ok, "канал закрыт")
		var f outFrameJSON
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("нет кадра")
	}
	return outFrameJSON{}
}

type outFrameJSON struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func TestHub_EmitReachesEverySessionInRoom(t *testing.T) {
	hub := startHub(t)
	phone := newTestSession(t, hub, "u1", 8)
	laptop := newTestSession(t, hub, "u1", 8)
	other := newTestSession(t, hub, "u2", 8)

	require.True(t, hub.Join(phone, UserRoom("u1")))
	require.True(t, hub.Join(laptop, UserRoom("u1")))
	require.True(t, hub.Join(other, UserRoom("u2")))
	assert.Equal(t, 2, hub.RoomSize(UserRoom("u1")))

	delivered := hub.Emit(UserRoom("u1"), EventNotification, map[string]string{"type": "NEW_JOB"})
	assert.Equal(t, 2, delivered)

	for _, s := range []*Session{phone, laptop} {
		f := readFrame(t, s)
		assert.Equal(t, EventNotification, f.Event)
		assert.JSONEq(t, `{"type":"NEW_JOB"}`, string(f.Data))
	}
	assert.Empty(t, other.send)
}

func TestHub_EmitToEmptyRoomIsNoop(t *testing.T) {
	hub := startHub(t)
	assert.Equal(t, 0, hub.Emit(UserRoom("nobody"), EventNotification, nil))
}

func TestHub_SessionInSeveralRooms(t *testing.T) {
	hub := startHub(t)
	s := newTestSession(t, hub, "u1", 8)
	require.True(t, hub.Join(s, UserRoom("u1")))
	require.True(t, hub.Join(s, GroupRoom("g1")))

	hub.Emit(GroupRoom("g1"), EventNewGroupMessage, "hi")
	assert.Equal(t, EventNewGroupMessage, readFrame(t, s).Event)

	hub.Unregister(s)
	assert.Eventually(t, func() bool {
		return hub.RoomSize(UserRoom("u1")) == 0 && hub.RoomSize(GroupRoom("g1")) == 0
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.SessionCount())
}

func TestHub_FullBufferDisconnectsSession(t *testing.T) {
	hub := startHub(t)
	slow := newTestSession(t, hub, "u1", 1)
	fast := newTestSession(t, hub, "u1", 8)
	require.True(t, hub.Join(slow, UserRoom("u1")))
	require.True(t, hub.Join(fast, UserRoom("u1")))

	assert.Equal(t, 2, hub.Emit(UserRoom("u1"), EventNotification, 1))
	assert.Equal(t, 1, hub.Emit(UserRoom("u1"), EventNotification, 2))

	assert.Eventually(t, func() bool { return hub.RoomSize(UserRoom("u1")) == 1 }, time.Second, 10*time.Millisecond)

	// первый кадр остался в буфере, затем канал закрыт
	<-slow.send
	_, ok := <-slow.send
	assert.False(t, ok)

	assert.Len(t, fast.send, 2)
}

func TestHub_JoinUnknownSession(t *testing.T) {
	hub := startHub(t)
	s := NewSession(hub, nil, "u1", DefaultOptions())
	assert.False(t, hub.Join(s, UserRoom("u1")))
}

func TestHub_StopClosesSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	s := NewSession(hub, nil, "u1", DefaultOptions())
	require.True(t, hub.Register(s))
	cancel()
	<-done

	_, ok := <-s.send
	assert.False(t, ok)
	assert.False(t, hub.Register(NewSession(hub, nil, "u2", DefaultOptions())))
}

func TestEmitter_LocalBrokerDeliversToHub(t *testing.T) {
	hub := startHub(t)
	s := newTestSession(t, hub, "u1", 8)
	require.True(t, hub.Join(s, UserRoom("u1")))

	emitter := NewEmitter(NewLocalBroker(hub))
	emitter.Emit(context.Background(), UserRoom("u1"), EventFollowStatusUpdate, map[string][]string{
		"following": {"u2"},
		"followers": {},
	})

	f := readFrame(t, s)
	assert.Equal(t, EventFollowStatusUpdate, f.Event)
	assert.JSONEq(t, `{"following":["u2"],"followers":[]}`, string(f.Data))
}
