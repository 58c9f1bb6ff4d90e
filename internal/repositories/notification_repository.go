package repositories

import (
	"context"

	"jobnest_backend/internal/models"

	"gorm.io/gorm"
)

// NotificationFilter - фильтр списка уведомлений получателя
type NotificationFilter struct {
	Status     models.NotificationStatus // пусто - любой
	UnreadOnly bool
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByID(ctx context.Context, id string) (*models.Notification, error)

	// FindPendingRequest ищет ожидающую заявку sender -> recipient
	FindPendingRequest(ctx context.Context, senderID, recipientID string) (*models.Notification, error)
	// FindPendingRequestFor ищет ожидающую заявку по id, адресованную recipientID
	FindPendingRequestFor(ctx context.Context, id, recipientID string) (*models.Notification, error)
	// PendingRecipients - кому senderID отправил еще не рассмотренные заявки
	PendingRecipients(ctx context.Context, senderID string) ([]string, error)
	// TransitionStatus меняет статус только если текущий равен from; false - уже не в from
	TransitionStatus(ctx context.Context, id string, from, to models.NotificationStatus) (bool, error)

	// ListForRecipient - от новых к старым
	ListForRecipient(ctx context.Context, recipientID string, filter NotificationFilter) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, id, recipientID string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	if notification.Status == "" {
		notification.Status = models.NotificationPending
	}
	return translate(r.db.WithContext(ctx).Create(notification).Error, nil)
}

func (r *NotificationRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrNotificationNotFound)
	}
	return &n, nil
}

func (r *NotificationRepositoryImpl) FindPendingRequest(ctx context.Context, senderID, recipientID string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND recipient_id = ? AND type = ? AND status = ?",
			senderID, recipientID, models.NotificationFollowRequest, models.NotificationPending).
		First(&n).Error
	if err != nil {
		return nil, translate(err, ErrNotificationNotFound)
	}
	return &n, nil
}

func (r *NotificationRepositoryImpl) FindPendingRequestFor(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ? AND type = ? AND status = ?",
			id, recipientID, models.NotificationFollowRequest, models.NotificationPending).
		First(&n).Error
	if err != nil {
		return nil, translate(err, ErrNotificationNotFound)
	}
	return &n, nil
}

func (r *NotificationRepositoryImpl) PendingRecipients(ctx context.Context, senderID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("sender_id = ? AND type = ? AND status = ?",
			senderID, models.NotificationFollowRequest, models.NotificationPending).
		Distinct().
		Pluck("recipient_id", &ids).Error
	return ids, err
}

func (r *NotificationRepositoryImpl) TransitionStatus(ctx context.Context, id string, from, to models.NotificationStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *NotificationRepositoryImpl) ListForRecipient(ctx context.Context, recipientID string, filter NotificationFilter) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	notifications := []models.Notification{}
	err := query.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).First(&n, "id = ? AND recipient_id = ?", id, recipientID).Error
	if err != nil {
		return nil, translate(err, ErrNotificationNotFound)
	}
	if n.Read {
		return &n, nil
	}
	if err := r.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	n.Read = true
	return &n, nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepositoryImpl) Delete(ctx context.Context, id, recipientID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
