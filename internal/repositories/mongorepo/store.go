// Package mongorepo - реализация repositories.Store поверх MongoDB
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection         = "users"
	followsCollection       = "follows"
	notificationsCollection = "notifications"
	jobsCollection          = "jobs"
	groupsCollection        = "groups"
	messagesCollection      = "messages"

	pendingRequestIndex = "pending_follow_request"
)

var _ repositories.Store = (*Store)(nil)

type Store struct {
	client        *mongo.Client
	db            *mongo.Database
	users         *UserRepository
	follows       *FollowRepository
	notifications *NotificationRepository
	jobs          *JobRepository
	groups        *GroupRepository
	messages      *MessageRepository
}

// Connect подключается к mongo и создает индексы
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	store := NewStore(client, client.Database(dbName))
	if err := store.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:        client,
		db:            db,
		users:         &UserRepository{coll: db.Collection(usersCollection)},
		follows:       &FollowRepository{coll: db.Collection(followsCollection)},
		notifications: &NotificationRepository{coll: db.Collection(notificationsCollection)},
		jobs:          &JobRepository{coll: db.Collection(jobsCollection)},
		groups:        &GroupRepository{coll: db.Collection(groupsCollection)},
		messages:      &MessageRepository{coll: db.Collection(messagesCollection)},
	}
}

func (s *Store) Users() repositories.UserRepository                 { return s.users }
func (s *Store) Follows() repositories.FollowRepository             { return s.follows }
func (s *Store) Notifications() repositories.NotificationRepository { return s.notifications }
func (s *Store) Jobs() repositories.JobRepository                   { return s.jobs }
func (s *Store) Groups() repositories.GroupRepository               { return s.groups }
func (s *Store) Messages() repositories.MessageRepository           { return s.messages }

// WithinTransaction без replica set транзакций нет: fn выполняется как есть.
// Записи, которые она делает (upsert ребра, условная смена статуса), идемпотентны
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return fn(s)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		followsCollection: {
			{Keys: bson.D{{Key: "follower", Value: 1}, {Key: "following", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "following", Value: 1}}},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}, {Key: "type", Value: 1}, {Key: "status", Value: 1}}},
			// одна ожидающая заявка на пару
			{
				Keys: bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}},
				Options: options.Index().
					SetName(pendingRequestIndex).
					SetUnique(true).
					SetPartialFilterExpression(bson.M{
						"type":   models.NotificationFollowRequest,
						"status": models.NotificationPending,
					}),
			},
		},
		jobsCollection: {
			{Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "company", Value: "text"},
				{Key: "skills", Value: "text"},
				{Key: "specializations", Value: "text"},
			}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		groupsCollection: {
			{Keys: bson.D{{Key: "members", Value: 1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "receiver", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "group", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for name, specs := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// translate приводит ошибки драйвера к ошибкам repositories
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return notFound
	case mongo.IsDuplicateKeyError(err):
		return repositories.ErrDuplicate
	default:
		return err
	}
}
