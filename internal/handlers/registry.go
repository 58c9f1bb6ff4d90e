package handlers

import "github.com/gin-gonic/gin"

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	FollowHandler       *FollowHandler
	NotificationHandler *NotificationHandler
	JobHandler          *JobHandler
	ChatHandler         *ChatHandler
	GroupHandler        *GroupHandler
	HealthHandler       *HealthHandler
}

// Guards - middleware, которые хэндлеры вешают на свои группы
type Guards struct {
	Auth      gin.HandlerFunc
	AuthLimit gin.HandlerFunc
}
