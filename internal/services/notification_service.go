package services

import (
	"context"
	"errors"

	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/pkg/apperrors"
)

type NotificationService interface {
	// ListPending - ожидающие уведомления, новые первыми
	ListPending(ctx context.Context, recipientID string) ([]models.Notification, error)
	ListAll(ctx context.Context, recipientID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID, recipientID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, notificationID, recipientID string) error
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func (s *notificationService) ListPending(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return s.list(ctx, recipientID, repositories.NotificationFilter{Status: models.NotificationPending})
}

func (s *notificationService) ListAll(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return s.list(ctx, recipientID, repositories.NotificationFilter{})
}

func (s *notificationService) list(ctx context.Context, recipientID string, filter repositories.NotificationFilter) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListForRecipient(ctx, recipientID, filter)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if err := s.populateSenders(ctx, notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, recipientID string) (*models.Notification, error) {
	n, err := s.notificationRepo.MarkRead(ctx, notificationID, recipientID)
	if err != nil {
		return nil, notificationError(err)
	}

	single := []models.Notification{*n}
	if err := s.populateSenders(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	updated, err := s.notificationRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	logger.CtxDebug(ctx, "Notifications marked as read", "count", updated)
	return updated, nil
}

func (s *notificationService) Delete(ctx context.Context, notificationID, recipientID string) error {
	if err := s.notificationRepo.Delete(ctx, notificationID, recipientID); err != nil {
		return notificationError(err)
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	return count, nil
}

// populateSenders подставляет {_id, username, avatar}; удаленный отправитель дает nil
func (s *notificationService) populateSenders(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	ids := make([]string, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.SenderID)
	}
	users, err := s.userRepo.FindByIDs(ctx, uniqueExcept(ids, ""))
	if err != nil {
		return apperrors.DatabaseError(err)
	}

	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range notifications {
		var sender *models.UserSummary
		if u, ok := byID[notifications[i].SenderID]; ok {
			sender = u.Summary()
		}
		notifications[i].SetSender(sender)
	}
	return nil
}

func notificationError(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrNotificationNotFound
	}
	return apperrors.DatabaseError(err)
}
