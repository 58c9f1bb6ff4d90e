package mongorepo_test

import (
	"context"
	"testing"

	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/repositories/mongorepo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func ns(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

func TestFollowRepository_UpsertCreatesOnce(t *testing.T) {
	mt := newMock(t)

	mt.Run("second create is a no-op", func(mt *mtest.T) {
		store := mongorepo.NewStore(mt.Client, mt.DB)
		ctx := context.Background()
		edge := &models.Follow{FollowerID: "u-1", FollowingID: "u-2"}

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "f-1"}}}},
		))
		created, err := store.Follows().Create(ctx, edge)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, edge.ID)

		// документ уже есть: matched без upserted
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))
		created, err = store.Follows().Create(ctx, &models.Follow{FollowerID: "u-1", FollowingID: "u-2"})
		require.NoError(t, err)
		assert.False(t, created)

		started := mt.GetAllStartedEvents()
		require.Len(t, started, 2)
		update := started[1].Command.Lookup("updates").Array().Index(0).Value().Document()
		assert.True(t, update.Lookup("upsert").Boolean())
		assert.Equal(t, "u-1", update.Lookup("q", "follower").StringValue())
		assert.Equal(t, "u-2", update.Lookup("q", "following").StringValue())
	})

	mt.Run("concurrent upsert hits unique index", func(mt *mtest.T) {
		store := mongorepo.NewStore(mt.Client, mt.DB)

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))
		created, err := store.Follows().Create(context.Background(), &models.Follow{FollowerID: "u-1", FollowingID: "u-2"})
		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestNotificationRepository_TransitionStatusOnce(t *testing.T) {
	mt := newMock(t)

	mt.Run("pending to accepted then stale", func(mt *mtest.T) {
		store := mongorepo.NewStore(mt.Client, mt.DB)
		ctx := context.Background()

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		ok, err := store.Notifications().TransitionStatus(ctx, "n-1", models.NotificationPending, models.NotificationAccepted)
		require.NoError(t, err)
		assert.True(t, ok)

		// статус уже accepted, фильтр по from ничего не находит
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		ok, err = store.Notifications().TransitionStatus(ctx, "n-1", models.NotificationPending, models.NotificationRejected)
		require.NoError(t, err)
		assert.False(t, ok)

		started := mt.GetAllStartedEvents()
		require.Len(t, started, 2)
		filter := started[1].Command.Lookup("updates").Array().Index(0).Value().Document().Lookup("q").Document()
		assert.Equal(t, "n-1", filter.Lookup("_id").StringValue())
		assert.Equal(t, string(models.NotificationPending), filter.Lookup("status").StringValue())
	})
}

func TestNotificationRepository_FindPendingRequestFor(t *testing.T) {
	mt := newMock(t)

	mt.Run("recipient matches", func(mt *mtest.T) {
		store := mongorepo.NewStore(mt.Client, mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, "notifications"), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "n-1"},
			{Key: "type", Value: string(models.NotificationFollowRequest)},
			{Key: "sender", Value: "u-1"},
			{Key: "recipient", Value: "u-2"},
			{Key: "status", Value: string(models.NotificationPending)},
		}))
		found, err := store.Notifications().FindPendingRequestFor(context.Background(), "n-1", "u-2")
		require.NoError(t, err)
		assert.Equal(t, "n-1", found.ID)
		assert.Equal(t, "u-1", found.SenderID)
		assert.True(t, found.IsPendingFollowRequest())
	})

	mt.Run("wrong recipient", func(mt *mtest.T) {
		store := mongorepo.NewStore(mt.Client, mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, "notifications"), mtest.FirstBatch))
		_, err := store.Notifications().FindPendingRequestFor(context.Background(), "n-1", "u-1")
		assert.ErrorIs(t, err, repositories.ErrNotificationNotFound)

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		assert.Equal(t, "u-1", filter.Lookup("recipient").StringValue())
		assert.Equal(t, string(models.NotificationFollowRequest), filter.Lookup("type").StringValue())
	})
}

func TestNotificationRepository_DuplicatePendingRequest(t *testing.T) {
	mt := newMock(t)

	mt.Run("unique index violation", func(mt *mtest.T) {
		store := mongorepo.NewStore(mt.Client, mt.DB)

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error index: pending_follow_request",
		}))
		err := store.Notifications().Create(context.Background(), &models.Notification{
			Type:        models.NotificationFollowRequest,
			SenderID:    "u-1",
			RecipientID: "u-2",
		})
		assert.ErrorIs(t, err, repositories.ErrDuplicate)
	})
}

func TestStore_EnsureIndexes(t *testing.T) {
	mt := newMock(t)

	mt.Run("pending request index is partial and unique", func(mt *mtest.T) {
		store := mongorepo.NewStore(mt.Client, mt.DB)

		// по ответу на каждую коллекцию
		for i := 0; i < 6; i++ {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		require.NoError(t, store.EnsureIndexes(context.Background()))

		var pending bson.Raw
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName != "createIndexes" || evt.Command.Lookup("createIndexes").StringValue() != "notifications" {
				continue
			}
			values, err := evt.Command.Lookup("indexes").Array().Values()
			require.NoError(t, err)
			for _, v := range values {
				doc := v.Document()
				if name, ok := doc.Lookup("name").StringValueOK(); ok && name == "pending_follow_request" {
					pending = doc
				}
			}
		}
		require.NotNil(t, pending)
		assert.True(t, pending.Lookup("unique").Boolean())
		assert.Equal(t, string(models.NotificationFollowRequest), pending.Lookup("partialFilterExpression", "type").StringValue())
		assert.Equal(t, string(models.NotificationPending), pending.Lookup("partialFilterExpression", "status").StringValue())
	})
}
