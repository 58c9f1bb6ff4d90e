package dto

import "time"

// UserListItem - пользователь в списке GET /users со статусом подписки смотрящего
type UserListItem struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
	IsFollowing  bool      `json:"isFollowing"`
	FollowStatus *string   `json:"followStatus"`
}
