package app

import (
	"context"
	"fmt"
	"time"

	"jobnest_backend/internal/config"
	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/repositories/mongorepo"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openStore подключает хранилище по database.driver
func openStore(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)

	if cfg.Database.Driver == config.DriverMongo {
		store, err := mongorepo.Connect(ctx, cfg.Database.DSN, cfg.Database.Name)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		logger.Info("Database connected", "driver", cfg.Database.Driver, "database", cfg.Database.Name)
		return store, nil
	}

	db, err := OpenGorm(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get *sql.DB from GORM: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database unavailable: %w", err)
	}

	if err := repositories.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Info("Database connected", "driver", cfg.Database.Driver)
	return repositories.NewGormStore(db), nil
}

// OpenGorm открывает SQL-хранилище с логгером запросов через slog
func OpenGorm(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.Database.DSN)
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.Database.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Database.Driver)
	}

	level := gormlogger.Warn
	if cfg.Server.Env == "development" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         repositories.NewGormLogger(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}
	return db, nil
}
