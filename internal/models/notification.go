package models

import "encoding/json"

type NotificationType string

const (
	NotificationFollowRequest  NotificationType = "FOLLOW_REQUEST"
	NotificationFollowAccepted NotificationType = "FOLLOW_ACCEPTED"
	NotificationMessage        NotificationType = "MESSAGE"
	NotificationNewJob         NotificationType = "NEW_JOB"
)

// NotificationStatus у FOLLOW_REQUEST одновременно состояние самой заявки
type NotificationStatus string

const (
	NotificationPending  NotificationStatus = "pending"
	NotificationAccepted NotificationStatus = "accepted"
	NotificationRejected NotificationStatus = "rejected"
)

type Notification struct {
	BaseModel   `bson:",inline"`
	Type        NotificationType   `gorm:"size:32;not null;index:idx_notification_pair,priority:3" bson:"type" json:"type"`
	SenderID    string             `gorm:"column:sender_id;type:varchar(36);not null;index:idx_notification_pair,priority:1" bson:"sender" json:"-"`
	RecipientID string             `gorm:"column:recipient_id;type:varchar(36);not null;index:idx_notification_inbox,priority:1;index:idx_notification_pair,priority:2" bson:"recipient" json:"recipient"`
	Read        bool               `gorm:"column:is_read;not null;default:false" bson:"read" json:"read"`
	Status      NotificationStatus `gorm:"size:16;not null;default:pending;index:idx_notification_inbox,priority:2" bson:"status" json:"status"`
	JobID       *string            `gorm:"column:job_id;type:varchar(36)" bson:"jobId,omitempty" json:"jobId,omitempty"`

	// Sender заполняется при чтении через SetSender
	Sender       *UserSummary `gorm:"-" bson:"-" json:"-"`
	senderLoaded bool
}

// SetSender - результат populate; nil означает, что отправитель удален
func (n *Notification) SetSender(sender *UserSummary) {
	n.Sender = sender
	n.senderLoaded = true
}

// MarshalJSON отдает sender объектом (или null), если был populate, иначе идентификатором
func (n Notification) MarshalJSON() ([]byte, error) {
	type plain Notification
	var sender any = n.SenderID
	if n.senderLoaded || n.Sender != nil {
		sender = n.Sender
	}
	return json.Marshal(struct {
		plain
		Sender any `json:"sender"`
	}{plain(n), sender})
}

func (n *Notification) IsPendingFollowRequest() bool {
	return n.Type == NotificationFollowRequest && n.Status == NotificationPending
}
