// watch - консольный клиент: подтягивает пользователей и уведомления,
// затем держит /ws и печатает новые уведомления и смены статусов подписки
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"jobnest_backend/internal/logger"
	"jobnest_backend/pkg/pushclient"
	"jobnest_backend/pkg/reconciler"
	"jobnest_backend/ws"

	"github.com/joho/godotenv"
)

type options struct {
	server   string
	token    string
	email    string
	password string
	groups   bool
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.server, "server", envOr("JOBNEST_SERVER", "http://localhost:3002"), "адрес API")
	flag.StringVar(&opts.token, "token", os.Getenv("JOBNEST_TOKEN"), "JWT; если пуст, выполняется вход по email/password")
	flag.StringVar(&opts.email, "email", os.Getenv("JOBNEST_EMAIL"), "email для входа")
	flag.StringVar(&opts.password, "password", os.Getenv("JOBNEST_PASSWORD"), "пароль для входа")
	flag.BoolVar(&opts.groups, "groups", true, "подписаться на комнаты своих групп")
	flag.Parse()

	logger.Init(envOr("APP_ENV", "development"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watch stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	api := pushclient.NewAPI(opts.server)
	api.Token = opts.token

	userID, err := authenticate(ctx, api, opts)
	if err != nil {
		return err
	}
	logger.Info("Authenticated", "user_id", userID, "server", opts.server)

	state := reconciler.New()

	// подключаемся до загрузки, чтобы не потерять события между fetch и join
	client, err := pushclient.Dial(ctx, opts.server, api.Token)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.JoinUser(userID); err != nil {
		return fmt.Errorf("join user: %w", err)
	}
	if opts.groups {
		if err := joinGroups(ctx, api, client); err != nil {
			logger.Warn("Group rooms not joined", "error", err)
		}
	}

	users, err := api.Users(ctx)
	if err != nil {
		return fmt.Errorf("fetch users: %w", err)
	}
	state.ApplyUsers(users)

	list, err := api.Notifications(ctx)
	if err != nil {
		return fmt.Errorf("fetch notifications: %w", err)
	}
	state.ApplyNotifications(list)
	fmt.Fprintf(out, "%d users, %d pending notifications\n", len(users), len(list))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-client.Events():
			if !ok {
				return client.Err()
			}
			handleEvent(state, e, out)
		}
	}
}

func authenticate(ctx context.Context, api *pushclient.API, opts options) (string, error) {
	if api.Token != "" {
		id, err := api.Me(ctx)
		if err != nil {
			return "", fmt.Errorf("check token: %w", err)
		}
		return id, nil
	}
	if opts.email == "" || opts.password == "" {
		return "", errors.New("нужен -token или пара -email/-password")
	}
	id, err := api.Login(ctx, opts.email, opts.password)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return id, nil
}

func joinGroups(ctx context.Context, api *pushclient.API, client *pushclient.Client) error {
	ids, err := api.GroupIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return client.JoinGroups(ids)
}

func handleEvent(state *reconciler.State, e pushclient.Event, out io.Writer) {
	switch e.Name {
	case ws.EventNotification:
		n, err := e.Notification()
		if err != nil {
			logger.Warn("Bad notification frame", "error", err)
			return
		}
		if state.ApplyNotification(n) {
			fmt.Fprintln(out, describe(n))
		}

	case ws.EventFollowStatusUpdate:
		snapshot, err := e.Snapshot()
		if err != nil {
			logger.Warn("Bad snapshot frame", "error", err)
			return
		}
		for _, tr := range state.ApplyFollowStatusUpdate(snapshot) {
			fmt.Fprintf(out, "%s: %s -> %s\n", tr.Username, label(tr.From), label(tr.To))
		}

	case ws.EventNewMessage, ws.EventNewGroupMessage:
		fmt.Fprintf(out, "%s %s\n", e.Name, e.Data)

	case ws.EventError:
		logger.Warn("Server rejected event", "data", string(e.Data))

	default:
		logger.Debug("Ignored event", "event", e.Name)
	}
}

func describe(n reconciler.Notification) string {
	switch n.Type {
	case "FOLLOW_REQUEST":
		return fmt.Sprintf("%s wants to follow you (%s)", n.SenderName, n.ID)
	case "FOLLOW_ACCEPTED":
		return fmt.Sprintf("%s accepted your follow request", n.SenderName)
	case "NEW_JOB":
		return fmt.Sprintf("%s posted %q at %s", n.SenderName, n.JobTitle, n.Company)
	default:
		return fmt.Sprintf("%s from %s", n.Type, n.SenderName)
	}
}

func label(s reconciler.FollowStatus) string {
	if s == reconciler.StatusNone {
		return "none"
	}
	return string(s)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
