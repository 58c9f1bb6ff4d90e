package mongorepo

import (
	"context"
	"time"

	"jobnest_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepository struct {
	coll *mongo.Collection
}

func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	message.EnsureID()
	message.Touch(time.Now())
	_, err := r.coll.InsertOne(ctx, message)
	return translate(err, nil)
}

func (r *MessageRepository) Conversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"sender": userA, "receiver": userB},
		bson.M{"sender": userB, "receiver": userA},
	}})
}

func (r *MessageRepository) ForGroup(ctx context.Context, groupID string) ([]models.Message, error) {
	return r.find(ctx, bson.M{"group": groupID})
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	messages := []models.Message{}
	err = cursor.All(ctx, &messages)
	return messages, err
}
