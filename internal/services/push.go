package services

import (
	"context"

	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// PushEmitter публикует событие в комнату real-time канала (ws.Emitter)
type PushEmitter interface {
	Emit(ctx context.Context, room, event string, payload any)
}

// NotificationPush - data события notification
type NotificationPush struct {
	Type           models.NotificationType `json:"type"`
	SenderID       string                  `json:"senderId"`
	SenderName     string                  `json:"senderName"`
	NotificationID string                  `json:"notificationId"`
	JobID          string                  `json:"jobId,omitempty"`
	JobTitle       string                  `json:"jobTitle,omitempty"`
	Company        string                  `json:"company,omitempty"`
}

// followSnapshot считает оба списка параллельно
func followSnapshot(ctx context.Context, follows repositories.FollowRepository, userID string) (models.FollowSnapshot, error) {
	var snapshot models.FollowSnapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ids, err := follows.FollowingIDs(gctx, userID)
		snapshot.Following = ids
		return err
	})
	g.Go(func() error {
		ids, err := follows.FollowerIDs(gctx, userID)
		snapshot.Followers = ids
		return err
	})

	if err := g.Wait(); err != nil {
		return models.FollowSnapshot{}, err
	}
	if snapshot.Following == nil {
		snapshot.Following = []string{}
	}
	if snapshot.Followers == nil {
		snapshot.Followers = []string{}
	}
	return snapshot, nil
}
