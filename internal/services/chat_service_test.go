package services_test

import (
	"context"
	"testing"

	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/internal/testutil"
	"jobnest_backend/pkg/apperrors"
	"jobnest_backend/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_SendValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.store, "alice", "secret1")

	_, err := e.svc.ChatService.Send(ctx, alice.ID, &dto.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrMessageTargetMissing)

	_, err = e.svc.ChatService.Send(ctx, alice.ID, &dto.SendMessageRequest{Receiver: alice.ID, Content: "   "})
	assert.ErrorIs(t, err, apperrors.ErrMessageTargetMissing)

	_, err = e.svc.ChatService.Send(ctx, alice.ID, &dto.SendMessageRequest{Receiver: models.NewID(), Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = e.svc.ChatService.Send(ctx, alice.ID, &dto.SendMessageRequest{Group: models.NewID(), Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
}

func TestChatService_DirectMessage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.store, "alice", "secret1")
	bob := testutil.CreateUser(t, e.store, "bob", "secret1")

	msg, err := e.svc.ChatService.Send(ctx, alice.ID, &dto.SendMessageRequest{Receiver: bob.ID, Content: "hello bob"})
	require.NoError(t, err)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "alice", msg.Sender.Username)
	require.NotNil(t, msg.Receiver)
	assert.Equal(t, bob.ID, msg.Receiver.ID)

	newMessage := e.push.To(ws.UserRoom(bob.ID), ws.EventNewMessage)
	require.Len(t, newMessage, 1)
	assert.Equal(t, msg, newMessage[0].Payload)

	notes := e.push.To(ws.UserRoom(bob.ID), ws.EventNotification)
	require.Len(t, notes, 1)
	payload := notes[0].Payload.(services.NotificationPush)
	assert.Equal(t, models.NotificationMessage, payload.Type)
	assert.Equal(t, "alice", payload.SenderName)

	inbox, err := e.store.Notifications().ListForRecipient(ctx, bob.ID, repositories.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotificationMessage, inbox[0].Type)

	_, err = e.svc.ChatService.Send(ctx, bob.ID, &dto.SendMessageRequest{Receiver: alice.ID, Content: "hi alice"})
	require.NoError(t, err)

	conversation, err := e.svc.ChatService.Conversation(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	assert.Equal(t, "hello bob", conversation[0].Content)
	assert.Equal(t, "hi alice", conversation[1].Content)
	require.NotNil(t, conversation[1].Sender)
	assert.Equal(t, "bob", conversation[1].Sender.Username)
}

func TestChatService_GroupRoomMessage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.store, "alice", "secret1")
	bob := testutil.CreateUser(t, e.store, "bob", "secret1")
	mallory := testutil.CreateUser(t, e.store, "mallory", "secret1")

	group, err := e.svc.GroupService.Create(ctx, alice.ID, &dto.CreateGroupRequest{Name: "ICU team", Members: []string{bob.ID}})
	require.NoError(t, err)

	_, err = e.svc.ChatService.Send(ctx, mallory.ID, &dto.SendMessageRequest{Group: group.ID, Content: "let me in"})
	assert.ErrorIs(t, err, apperrors.ErrNotGroupMember)

	msg, err := e.svc.ChatService.Send(ctx, bob.ID, &dto.SendMessageRequest{Group: group.ID, Content: "shift swap?"})
	require.NoError(t, err)
	require.NotNil(t, msg.GroupID)

	room := e.push.To(ws.GroupRoom(group.ID), ws.EventNewGroupMessage)
	require.Len(t, room, 1)
	assert.Equal(t, msg, room[0].Payload)
	assert.Empty(t, e.push.To(ws.UserRoom(alice.ID), ws.EventNewGroupMessage))
}
