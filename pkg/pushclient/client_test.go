package pushclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobnest_backend/internal/models"
	"jobnest_backend/pkg/pushclient"
	"jobnest_backend/pkg/reconciler"
	"jobnest_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshots map[string]models.FollowSnapshot

func (s snapshots) Snapshot(_ context.Context, userID string) (models.FollowSnapshot, error) {
	return s[userID], nil
}

type noGroups struct{}

func (noGroups) GroupIDsFor(context.Context, string) ([]string, error) { return nil, nil }

func startServer(t *testing.T) (*httptest.Server, *ws.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub()
	go hub.Run(ctx)

	dispatcher := ws.NewDispatcher(hub, snapshots{"u1": {Following: []string{"u2"}, Followers: []string{}}}, noGroups{})
	handler := ws.NewWebSocketHandler(hub, dispatcher, ws.DefaultOptions(), nil)

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		// токен = id пользователя
		if c.Query("token") == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set("userID", c.Query("token"))
	}, handler.ServeWS)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, hub
}

func next(t *testing.T, c *pushclient.Client) pushclient.Event {
	t.Helper()
	select {
	case e, ok := <-c.Events():
		require.True(t, ok, "канал закрыт: %v", c.Err())
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("нет события")
		return pushclient.Event{}
	}
}

func TestClient_JoinAndReceive(t *testing.T) {
	srv, hub := startServer(t)

	c, err := pushclient.Dial(context.Background(), srv.URL, "u1")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.JoinUser("u1"))

	e := next(t, c)
	require.Equal(t, ws.EventFollowStatusUpdate, e.Name)
	snapshot, err := e.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, reconciler.Snapshot{Following: []string{"u2"}, Followers: []string{}}, snapshot)

	hub.Emit(ws.UserRoom("u1"), ws.EventNotification, map[string]string{
		"type":           "NEW_JOB",
		"senderId":       "u2",
		"senderName":     "bob",
		"notificationId": "n1",
		"jobTitle":       "Nurse",
	})

	e = next(t, c)
	require.Equal(t, ws.EventNotification, e.Name)
	n, err := e.Notification()
	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)
	assert.Equal(t, "Nurse", n.JobTitle)
	assert.Equal(t, "bob", n.SenderName)
}

func TestClient_CloseEndsEvents(t *testing.T) {
	srv, _ := startServer(t)

	c, err := pushclient.Dial(context.Background(), srv.URL, "u1")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	for range c.Events() {
	}
	assert.ErrorIs(t, c.Err(), pushclient.ErrClosed)
	assert.ErrorIs(t, c.JoinUser("u1"), pushclient.ErrClosed)
}

func TestDial_Unauthorized(t *testing.T) {
	srv, _ := startServer(t)

	_, err := pushclient.Dial(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestAPI_UsersAndNotifications(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/users", func(c *gin.Context) {
		assert.Equal(t, "Bearer tok", c.GetHeader("Authorization"))
		c.String(http.StatusOK, `[{"_id":"u2","username":"bob","followStatus":"pending"},{"_id":"u3","username":"carol","followStatus":null}]`)
	})
	router.GET("/api/notifications", func(c *gin.Context) {
		c.String(http.StatusOK, `[{"_id":"n1","type":"FOLLOW_REQUEST","sender":{"_id":"u3","username":"carol"},"createdAt":"2026-03-01T12:00:00Z"},{"_id":"n2","type":"NEW_JOB","sender":null,"createdAt":"2026-03-01T11:00:00Z"}]`)
	})
	router.GET("/api/auth/me", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	api := pushclient.NewAPI(srv.URL)
	api.Token = "tok"
	ctx := context.Background()

	users, err := api.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, reconciler.StatusPending, users[0].FollowStatus)
	assert.Equal(t, reconciler.StatusNone, users[1].FollowStatus)

	list, err := api.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "carol", list[0].SenderName)
	assert.Empty(t, list[1].SenderID)

	_, err = api.Me(ctx)
	var apiErr *pushclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid token", apiErr.Message)
}
