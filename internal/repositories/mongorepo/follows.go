package mongorepo

import (
	"context"
	"time"

	"jobnest_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FollowRepository struct {
	coll *mongo.Collection
}

// Create - upsert по паре (follower, following), повтор не создает второе ребро
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) (bool, error) {
	if follow.ID == "" {
		follow.ID = models.NewID()
	}
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = time.Now()
	}

	filter := bson.M{"follower": follow.FollowerID, "following": follow.FollowingID}
	update := bson.M{"$setOnInsert": bson.M{"_id": follow.ID, "createdAt": follow.CreatedAt}}
	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// параллельный upsert той же пары
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"follower": followerID, "following": followingID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"follower": followerID, "following": followingID})
	return count > 0, err
}

func (r *FollowRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.pluck(ctx, bson.M{"follower": userID}, func(f models.Follow) string { return f.FollowingID })
}

func (r *FollowRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.pluck(ctx, bson.M{"following": userID}, func(f models.Follow) string { return f.FollowerID })
}

func (r *FollowRepository) pluck(ctx context.Context, filter bson.M, field func(models.Follow) string) ([]string, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var follows []models.Follow
	if err := cursor.All(ctx, &follows); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, field(f))
	}
	return ids, nil
}
