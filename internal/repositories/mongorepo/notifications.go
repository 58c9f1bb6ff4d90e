package mongorepo

import (
	"context"
	"time"

	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository struct {
	coll *mongo.Collection
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.Status == "" {
		n.Status = models.NotificationPending
	}
	n.EnsureID()
	n.Touch(time.Now())
	_, err := r.coll.InsertOne(ctx, n)
	return translate(err, nil)
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *NotificationRepository) FindPendingRequest(ctx context.Context, senderID, recipientID string) (*models.Notification, error) {
	return r.findOne(ctx, bson.M{
		"sender":    senderID,
		"recipient": recipientID,
		"type":      models.NotificationFollowRequest,
		"status":    models.NotificationPending,
	})
}

func (r *NotificationRepository) FindPendingRequestFor(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	return r.findOne(ctx, bson.M{
		"_id":       id,
		"recipient": recipientID,
		"type":      models.NotificationFollowRequest,
		"status":    models.NotificationPending,
	})
}

func (r *NotificationRepository) findOne(ctx context.Context, filter bson.M) (*models.Notification, error) {
	var n models.Notification
	if err := r.coll.FindOne(ctx, filter).Decode(&n); err != nil {
		return nil, translate(err, repositories.ErrNotificationNotFound)
	}
	return &n, nil
}

func (r *NotificationRepository) PendingRecipients(ctx context.Context, senderID string) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "recipient", bson.M{
		"sender": senderID,
		"type":   models.NotificationFollowRequest,
		"status": models.NotificationPending,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *NotificationRepository) TransitionStatus(ctx context.Context, id string, from, to models.NotificationStatus) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *NotificationRepository) ListForRecipient(ctx context.Context, recipientID string, filter repositories.NotificationFilter) ([]models.Notification, error) {
	query := bson.M{"recipient": recipientID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.UnreadOnly {
		query["read"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	notifications := []models.Notification{}
	err = cursor.All(ctx, &notifications)
	return notifications, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	var n models.Notification
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "recipient": recipientID},
		bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if err != nil {
		return nil, translate(err, repositories.ErrNotificationNotFound)
	}
	return &n, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"recipient": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id, recipientID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipientID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"recipient": recipientID, "read": false})
}
