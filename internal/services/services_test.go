package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobnest_backend/internal/auth"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services"
	"jobnest_backend/internal/testutil"
)

type testEnv struct {
	store repositories.Store
	push  *testutil.RecordingEmitter
	svc   *services.ServiceContainer
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repositories.NewGormStore(testutil.OpenTestDB(t))
	push := &testutil.RecordingEmitter{}
	return &testEnv{
		store: store,
		push:  push,
		svc:   services.NewServiceContainer(store, push, auth.NewTokenManager("test-secret", time.Hour)),
	}
}

// failingStore отказывает в создании уведомлений для одного получателя
type failingStore struct {
	repositories.Store
	failFor string
}

func (s failingStore) Notifications() repositories.NotificationRepository {
	return failingNotifications{NotificationRepository: s.Store.Notifications(), failFor: s.failFor}
}

type failingNotifications struct {
	repositories.NotificationRepository
	failFor string
}

func (f failingNotifications) Create(ctx context.Context, n *models.Notification) error {
	if n.RecipientID == f.failFor {
		return errors.New("disk full")
	}
	return f.NotificationRepository.Create(ctx, n)
}
