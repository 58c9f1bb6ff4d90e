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

type GroupRepository struct {
	coll *mongo.Collection
}

func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	group.EnsureID()
	group.Touch(time.Now())
	_, err := r.coll.InsertOne(ctx, group)
	return translate(err, nil)
}

func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&group); err != nil {
		return nil, translate(err, repositories.ErrGroupNotFound)
	}
	return &group, nil
}

func (r *GroupRepository) FindByMember(ctx context.Context, userID string) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"members": userID}, opts)
	if err != nil {
		return nil, err
	}
	groups := []models.Group{}
	err = cursor.All(ctx, &groups)
	return groups, err
}
