package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"jobnest_backend/internal/models"
	"jobnest_backend/internal/testutil"
	"jobnest_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_InboxLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.store, "alice", "secret1")
	bob := testutil.CreateUser(t, e.store, "bob", "secret1")
	carol := testutil.CreateUser(t, e.store, "carol", "secret1")

	first, err := e.svc.FollowService.SendRequest(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = e.svc.FollowService.SendRequest(ctx, bob.ID, carol.ID)
	require.NoError(t, err)

	pending, err := e.svc.NotificationService.ListPending(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, n := range pending {
		require.NotNil(t, n.Sender)
		assert.Contains(t, []string{"alice", "bob"}, n.Sender.Username)
	}

	count, err := e.svc.NotificationService.UnreadCount(ctx, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	read, err := e.svc.NotificationService.MarkRead(ctx, first.ID, carol.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	require.NotNil(t, read.Sender)
	assert.Equal(t, "alice", read.Sender.Username)

	_, err = e.svc.NotificationService.MarkRead(ctx, first.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound, "чужое уведомление")

	updated, err := e.svc.NotificationService.MarkAllRead(ctx, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	require.NoError(t, e.svc.NotificationService.Delete(ctx, first.ID, carol.ID))
	assert.ErrorIs(t, e.svc.NotificationService.Delete(ctx, first.ID, carol.ID), apperrors.ErrNotificationNotFound)

	all, err := e.svc.NotificationService.ListAll(ctx, carol.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNotificationService_DeletedSenderSerializesAsNull(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	carol := testutil.CreateUser(t, e.store, "carol", "secret1")

	ghost := &models.Notification{
		Type:        models.NotificationMessage,
		SenderID:    models.NewID(),
		RecipientID: carol.ID,
	}
	require.NoError(t, e.store.Notifications().Create(ctx, ghost))

	list, err := e.svc.NotificationService.ListAll(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	raw, err := json.Marshal(list[0])
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body, "sender")
	assert.Nil(t, body["sender"])
}
