package services_test

import (
	"context"
	"testing"

	"jobnest_backend/internal/services/dto"
	"jobnest_backend/internal/testutil"
	"jobnest_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListWithFollowStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.store, "alice", "secret1")
	bob := testutil.CreateUser(t, e.store, "bob", "secret1")
	carol := testutil.CreateUser(t, e.store, "carol", "secret1")
	dave := testutil.CreateUser(t, e.store, "dave", "secret1")

	request, err := e.svc.FollowService.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, e.svc.FollowService.Accept(ctx, request.ID, bob.ID))
	_, err = e.svc.FollowService.SendRequest(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	// заявка к alice не влияет на ее взгляд
	_, err = e.svc.FollowService.SendRequest(ctx, dave.ID, alice.ID)
	require.NoError(t, err)

	items, err := e.svc.UserService.ListWithFollowStatus(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	byName := map[string]dto.UserListItem{}
	for _, item := range items {
		assert.NotEqual(t, alice.ID, item.ID)
		byName[item.Username] = item
	}

	assert.True(t, byName["bob"].IsFollowing)
	require.NotNil(t, byName["bob"].FollowStatus)
	assert.Equal(t, "following", *byName["bob"].FollowStatus)

	assert.False(t, byName["carol"].IsFollowing)
	require.NotNil(t, byName["carol"].FollowStatus)
	assert.Equal(t, "pending", *byName["carol"].FollowStatus)

	assert.False(t, byName["dave"].IsFollowing)
	assert.Nil(t, byName["dave"].FollowStatus)
}

func TestUserService_GetByID(t *testing.T) {
	e := newEnv(t)
	alice := testutil.CreateUser(t, e.store, "alice", "secret1")

	user, err := e.svc.UserService.GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@test.com", user.Email)

	_, err = e.svc.UserService.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
