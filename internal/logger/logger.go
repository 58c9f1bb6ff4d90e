package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

var log = newLogger("development", os.Stdout)

// Init переключает глобальный логгер под APP_ENV:
// development - текст с debug, test - текст от warn, остальное - JSON от info
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

func InitWithWriter(env string, w io.Writer) {
	log = newLogger(env, w)
	slog.SetDefault(log)
}

func newLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case "development":
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}))
	case "test":
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true}))
	}
}

func Debug(msg string, args ...any) { log.Debug(msg, args...) }
func Info(msg string, args ...any)  { log.Info(msg, args...) }
func Warn(msg string, args ...any)  { log.Warn(msg, args...) }
func Error(msg string, args ...any) { log.Error(msg, args...) }

// Fatal - только для старта процесса
func Fatal(msg string, args ...any) {
	log.Error(msg, args...)
	os.Exit(1)
}

// QueryLog пишет SQL-запрос gorm: ошибки на error, остальное на debug
func QueryLog(ctx context.Context, sql string, rows int64, elapsed time.Duration, err error) {
	l := FromContext(ctx).With("query", sql, "rows", rows, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		l.Error("database query failed", "error", err.Error())
		return
	}
	l.Debug("database query")
}

// PushLog - доставка события в комнату; sessions - сколько сокетов получили кадр
func PushLog(event, room string, sessions int, err error) {
	l := log.With("event", event, "room", room, "sessions", sessions)
	if err != nil {
		l.Warn("push delivery degraded", "error", err.Error())
		return
	}
	l.Debug("push delivered")
}

// FanOutLog подводит итог рассылки NEW_JOB по подписчикам
func FanOutLog(ctx context.Context, jobID string, recipients, delivered, failed int, err error) {
	l := FromContext(ctx).With("job_id", jobID, "recipients", recipients, "delivered", delivered, "failed", failed)
	if err != nil {
		l.Warn("Job fan-out degraded", "error", err.Error())
		return
	}
	l.Info("Job fan-out completed")
}
