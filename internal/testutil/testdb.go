// Package testutil - общие хелперы тестов: sqlite в памяти и запись push-событий
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"jobnest_backend/internal/auth"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	auth.HashCost = bcrypt.MinCost
}

// OpenTestDB открывает отдельную sqlite-базу в памяти и прогоняет миграции.
// Одно соединение: иначе каждое соединение видит свою пустую :memory: базу
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repositories.AutoMigrate(db), "AutoMigrate для тестовой БД")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser сохраняет пользователя с захешированным паролем password
func CreateUser(t *testing.T, store repositories.Store, username, password string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@test.com",
		Name:         username,
		PasswordHash: hash,
	}
	require.NoError(t, store.Users().Create(context.Background(), user),
		"Не удалось создать пользователя %s", username)
	return user
}

// Clock выдает строго возрастающие таймстемпы для проверок сортировки
type Clock struct {
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Next() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}
