package services_test

import (
	"context"
	"testing"

	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.svc.AuthService.Register(ctx, &dto.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Test.com",
		Password: "secret1",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@test.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = e.svc.AuthService.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "other@test.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	_, err = e.svc.AuthService.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@test.com", Password: "123"})
	assert.Error(t, err)

	resp, err := e.svc.AuthService.Login(ctx, &dto.LoginRequest{Email: "alice@test.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = e.svc.AuthService.Login(ctx, &dto.LoginRequest{Email: "alice@test.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = e.svc.AuthService.Login(ctx, &dto.LoginRequest{Email: "nobody@test.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
