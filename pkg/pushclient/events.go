package pushclient

import (
	"fmt"

	"jobnest_backend/pkg/reconciler"
)

type notificationPush struct {
	Type           string `json:"type"`
	SenderID       string `json:"senderId"`
	SenderName     string `json:"senderName"`
	NotificationID string `json:"notificationId"`
	JobID          string `json:"jobId"`
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
}

// Notification разбирает data события notification
func (e Event) Notification() (reconciler.Notification, error) {
	var p notificationPush
	if err := e.Decode(&p); err != nil {
		return reconciler.Notification{}, fmt.Errorf("decode %s: %w", e.Name, err)
	}
	return reconciler.Notification{
		ID:         p.NotificationID,
		Type:       p.Type,
		SenderID:   p.SenderID,
		SenderName: p.SenderName,
		JobID:      p.JobID,
		JobTitle:   p.JobTitle,
		Company:    p.Company,
	}, nil
}

func (e Event) Snapshot() (reconciler.Snapshot, error) {
	var s reconciler.Snapshot
	if err := e.Decode(&s); err != nil {
		return reconciler.Snapshot{}, fmt.Errorf("decode %s: %w", e.Name, err)
	}
	return s, nil
}
