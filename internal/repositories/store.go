package repositories

import (
	"context"
	"errors"
	"fmt"

	"jobnest_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrJobNotFound          = errors.New("job not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrDuplicate            = errors.New("record already exists")
)

// Store - единая точка доступа к репозиториям.
// Реализации: gorm (postgres, mysql, sqlite) и mongo (пакет repositories/mongorepo)
type Store interface {
	Users() UserRepository
	Follows() FollowRepository
	Notifications() NotificationRepository
	Jobs() JobRepository
	Groups() GroupRepository
	Messages() MessageRepository

	// WithinTransaction выполняет fn атомарно, если хранилище это умеет.
	// fn должна работать только с переданным Store
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
	Close() error
}

type gormStore struct {
	db            *gorm.DB
	users         UserRepository
	follows       FollowRepository
	notifications NotificationRepository
	jobs          JobRepository
	groups        GroupRepository
	messages      MessageRepository
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{
		db:            db,
		users:         NewUserRepository(db),
		follows:       NewFollowRepository(db),
		notifications: NewNotificationRepository(db),
		jobs:          NewJobRepository(db),
		groups:        NewGroupRepository(db),
		messages:      NewMessageRepository(db),
	}
}

func (s *gormStore) Users() UserRepository                 { return s.users }
func (s *gormStore) Follows() FollowRepository             { return s.follows }
func (s *gormStore) Notifications() NotificationRepository { return s.notifications }
func (s *gormStore) Jobs() JobRepository                   { return s.jobs }
func (s *gormStore) Groups() GroupRepository               { return s.groups }
func (s *gormStore) Messages() MessageRepository           { return s.messages }

func (s *gormStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate создает/обновляет таблицы всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Notification{},
		&models.Job{},
		&models.Group{},
		&models.Message{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := ensurePendingRequestIndex(db); err != nil {
		return fmt.Errorf("pending request index: %w", err)
	}
	return nil
}

const pendingRequestIndex = "idx_notification_pending_request"

// ensurePendingRequestIndex - не больше одной pending FOLLOW_REQUEST на пару sender -> recipient.
// Вставка второй отдает ErrDuplicate
func ensurePendingRequestIndex(db *gorm.DB) error {
	migrator := db.Migrator()
	if migrator.HasIndex(&models.Notification{}, pendingRequestIndex) {
		return nil
	}

	predicate := fmt.Sprintf("type = '%s' AND status = '%s'", models.NotificationFollowRequest, models.NotificationPending)

	switch db.Dialector.Name() {
	case "mysql":
		// частичных индексов нет: уникальная генерируемая колонка, NULL между собой не конфликтуют
		if !migrator.HasColumn(&models.Notification{}, "pending_request_key") {
			if err := db.Exec(fmt.Sprintf(
				"ALTER TABLE notifications ADD COLUMN pending_request_key VARCHAR(80) "+
					"AS (CASE WHEN %s THEN CONCAT(sender_id, ':', recipient_id) END) VIRTUAL", predicate,
			)).Error; err != nil {
				return err
			}
		}
		return db.Exec(fmt.Sprintf("CREATE UNIQUE INDEX %s ON notifications (pending_request_key)", pendingRequestIndex)).Error
	default:
		// postgres и sqlite
		return db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON notifications (sender_id, recipient_id) WHERE %s",
			pendingRequestIndex, predicate,
		)).Error
	}
}

// translate приводит ошибки gorm к ошибкам пакета
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
