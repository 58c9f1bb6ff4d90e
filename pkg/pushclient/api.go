package pushclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jobnest_backend/pkg/reconciler"
)

// APIError - ответ сервера с кодом >= 400
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// API - тонкий REST-клиент для начальной загрузки состояния
type API struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	} `json:"user"`
}

// Login сохраняет токен в клиенте и возвращает id пользователя
func (a *API) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := a.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return "", err
	}
	a.Token = resp.Token
	return resp.User.ID, nil
}

func (a *API) Me(ctx context.Context) (string, error) {
	var resp struct {
		ID string `json:"_id"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

type userItem struct {
	ID           string  `json:"_id"`
	Username     string  `json:"username"`
	Avatar       string  `json:"avatar"`
	FollowStatus *string `json:"followStatus"`
}

func (a *API) Users(ctx context.Context) ([]reconciler.UserEntry, error) {
	var items []userItem
	if err := a.do(ctx, http.MethodGet, "/api/users", nil, &items); err != nil {
		return nil, err
	}

	users := make([]reconciler.UserEntry, 0, len(items))
	for _, it := range items {
		u := reconciler.UserEntry{ID: it.ID, Username: it.Username, Avatar: it.Avatar}
		if it.FollowStatus != nil {
			u.FollowStatus = reconciler.FollowStatus(*it.FollowStatus)
		}
		users = append(users, u)
	}
	return users, nil
}

type notificationItem struct {
	ID     string `json:"_id"`
	Type   string `json:"type"`
	Sender *struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	} `json:"sender"`
	JobID     string    `json:"jobId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *API) Notifications(ctx context.Context) ([]reconciler.Notification, error) {
	var items []notificationItem
	if err := a.do(ctx, http.MethodGet, "/api/notifications", nil, &items); err != nil {
		return nil, err
	}

	list := make([]reconciler.Notification, 0, len(items))
	for _, it := range items {
		n := reconciler.Notification{ID: it.ID, Type: it.Type, JobID: it.JobID, CreatedAt: it.CreatedAt}
		if it.Sender != nil {
			n.SenderID, n.SenderName = it.Sender.ID, it.Sender.Username
		}
		list = append(list, n)
	}
	return list, nil
}

func (a *API) RequestFollow(ctx context.Context, userID string) error {
	return a.do(ctx, http.MethodPost, "/api/follow/request", map[string]string{"recipientId": userID}, nil)
}

func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GroupIDs - группы, где состоит текущий пользователь
func (a *API) GroupIDs(ctx context.Context) ([]string, error) {
	var groups []struct {
		ID string `json:"_id"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/group/mine", nil, &groups); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	return ids, nil
}
