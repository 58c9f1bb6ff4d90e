package services

import (
	"jobnest_backend/internal/auth"
	"jobnest_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	FollowService       FollowService
	NotificationService NotificationService
	JobService          JobService
	ChatService         ChatService
	GroupService        GroupService
	FanOut              FanOut
}

// NewServiceContainer собирает сервисы поверх одного Store и одного канала push-событий
func NewServiceContainer(store repositories.Store, push PushEmitter, tokens *auth.TokenManager) *ServiceContainer {
	fanout := NewFanOut(store, push)
	return &ServiceContainer{
		AuthService:         NewAuthService(store.Users(), tokens),
		UserService:         NewUserService(store),
		FollowService:       NewFollowService(store, fanout),
		NotificationService: NewNotificationService(store.Notifications(), store.Users()),
		JobService:          NewJobService(store, fanout),
		ChatService:         NewChatService(store, fanout),
		GroupService:        NewGroupService(store, fanout),
		FanOut:              fanout,
	}
}
