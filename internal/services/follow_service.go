package services

import (
	"context"
	"errors"

	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/pkg/apperrors"
)

type FollowStatus string

const (
	FollowStatusNone      FollowStatus = ""
	FollowStatusPending   FollowStatus = "pending"
	FollowStatusFollowing FollowStatus = "following"
)

// FollowService - заявки на подписку и сами подписки.
// Заявка хранится как уведомление FOLLOW_REQUEST, его status - состояние заявки
type FollowService interface {
	SendRequest(ctx context.Context, senderID, recipientID string) (*models.Notification, error)
	Accept(ctx context.Context, notificationID, actingUserID string) error
	Reject(ctx context.Context, notificationID, actingUserID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	Snapshot(ctx context.Context, userID string) (models.FollowSnapshot, error)
	Status(ctx context.Context, viewerID, targetID string) (FollowStatus, error)
}

type followService struct {
	store  repositories.Store
	fanout FanOut
}

func NewFollowService(store repositories.Store, fanout FanOut) FollowService {
	return &followService{store: store, fanout: fanout}
}

func (s *followService) SendRequest(ctx context.Context, senderID, recipientID string) (*models.Notification, error) {
	if senderID == recipientID {
		return nil, apperrors.ErrCannotFollowSelf
	}

	sender, err := s.store.Users().FindByID(ctx, senderID)
	if err != nil {
		return nil, userLookupError(err)
	}
	if _, err := s.store.Users().FindByID(ctx, recipientID); err != nil {
		return nil, userLookupError(err)
	}

	_, err = s.store.Notifications().FindPendingRequest(ctx, senderID, recipientID)
	switch {
	case err == nil:
		return nil, apperrors.ErrDuplicateFollowRequest
	case !errors.Is(err, repositories.ErrNotificationNotFound):
		return nil, apperrors.DatabaseError(err)
	}

	request := &models.Notification{
		Type:        models.NotificationFollowRequest,
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      models.NotificationPending,
	}
	// параллельная заявка проскочила проверку выше, ее отсекает уникальный индекс
	if err := s.store.Notifications().Create(ctx, request); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateFollowRequest
		}
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Follow request sent", "recipient_id", recipientID, "notification_id", request.ID)
	s.fanout.OnFollowRequest(ctx, request, sender.DisplayName())
	return request, nil
}

func (s *followService) Accept(ctx context.Context, notificationID, actingUserID string) error {
	var request, accepted *models.Notification

	err := s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		var err error
		request, err = tx.Notifications().FindPendingRequestFor(ctx, notificationID, actingUserID)
		if err != nil {
			return requestLookupError(err)
		}

		// ребро могло остаться от прошлой подписки - переиспользуем
		if _, err := tx.Follows().Create(ctx, &models.Follow{
			FollowerID:  request.SenderID,
			FollowingID: request.RecipientID,
		}); err != nil {
			return apperrors.DatabaseError(err)
		}

		ok, err := tx.Notifications().TransitionStatus(ctx, request.ID, models.NotificationPending, models.NotificationAccepted)
		if err != nil {
			return apperrors.DatabaseError(err)
		}
		if !ok {
			// параллельный accept/reject успел раньше
			return apperrors.ErrFollowRequestNotFound
		}

		accepted = &models.Notification{
			Type:        models.NotificationFollowAccepted,
			SenderID:    actingUserID,
			RecipientID: request.SenderID,
			Status:      models.NotificationAccepted,
		}
		if err := tx.Notifications().Create(ctx, accepted); err != nil {
			return apperrors.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	// ребро уже закоммичено, дальше клиент может и отключиться
	ctx = context.WithoutCancel(ctx)

	accepterName := ""
	if accepter, err := s.store.Users().FindByID(ctx, actingUserID); err == nil {
		accepterName = accepter.DisplayName()
	}

	logger.CtxInfo(ctx, "Follow request accepted", "notification_id", request.ID, "follower_id", request.SenderID)
	s.fanout.OnFollowAccepted(ctx, request, accepted, accepterName)
	return nil
}

func (s *followService) Reject(ctx context.Context, notificationID, actingUserID string) error {
	request, err := s.store.Notifications().FindPendingRequestFor(ctx, notificationID, actingUserID)
	if err != nil {
		return requestLookupError(err)
	}

	ok, err := s.store.Notifications().TransitionStatus(ctx, request.ID, models.NotificationPending, models.NotificationRejected)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if !ok {
		return apperrors.ErrFollowRequestNotFound
	}

	logger.CtxInfo(ctx, "Follow request rejected", "notification_id", request.ID)
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followingID string) error {
	removed, err := s.store.Follows().Delete(ctx, followerID, followingID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if removed {
		logger.CtxInfo(ctx, "Unfollowed", "following_id", followingID)
	}

	s.fanout.PushSnapshots(ctx, followerID, followingID)
	return nil
}

func (s *followService) Snapshot(ctx context.Context, userID string) (models.FollowSnapshot, error) {
	snapshot, err := followSnapshot(ctx, s.store.Follows(), userID)
	if err != nil {
		return models.FollowSnapshot{}, apperrors.DatabaseError(err)
	}
	return snapshot, nil
}

func (s *followService) Status(ctx context.Context, viewerID, targetID string) (FollowStatus, error) {
	following, err := s.store.Follows().Exists(ctx, viewerID, targetID)
	if err != nil {
		return FollowStatusNone, apperrors.DatabaseError(err)
	}
	if following {
		return FollowStatusFollowing, nil
	}

	_, err = s.store.Notifications().FindPendingRequest(ctx, viewerID, targetID)
	switch {
	case err == nil:
		return FollowStatusPending, nil
	case errors.Is(err, repositories.ErrNotificationNotFound):
		return FollowStatusNone, nil
	default:
		return FollowStatusNone, apperrors.DatabaseError(err)
	}
}

func userLookupError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.DatabaseError(err)
}

func requestLookupError(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrFollowRequestNotFound
	}
	return apperrors.DatabaseError(err)
}
