package handlers

import (
	"net/http"

	"jobnest_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService         services.UserService
	notificationService services.NotificationService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, notificationService services.NotificationService) *UserHandler {
	return &UserHandler{
		BaseHandler:         base,
		userService:         userService,
		notificationService: notificationService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	users := rg.Group("/users")
	users.Use(g.Auth)
	{
		users.GET("", h.ListUsers)
		users.GET("/notifications", h.ListNotifications)
		users.PUT("/notifications/read", h.MarkAllNotificationsRead)
	}
}

// ListUsers - все пользователи, кроме текущего, со статусом подписки
func (h *UserHandler) ListUsers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	users, err := h.userService.ListWithFollowStatus(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) ListNotifications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.ListAll(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *UserHandler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as read", "updated": updated})
}
