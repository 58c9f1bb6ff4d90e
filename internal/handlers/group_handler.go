package handlers

import (
	"net/http"

	"jobnest_backend/internal/services"
	"jobnest_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	*BaseHandler
	groupService services.GroupService
}

func NewGroupHandler(base *BaseHandler, groupService services.GroupService) *GroupHandler {
	return &GroupHandler{
		BaseHandler:  base,
		groupService: groupService,
	}
}

func (h *GroupHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	group := rg.Group("/group")
	group.Use(g.Auth)
	{
		group.POST("/create", h.CreateGroup)
		group.GET("/mine", h.ListMyGroups)
		group.POST("/:groupId/message", h.SendMessage)
		group.GET("/:groupId/messages", h.GetMessages)
	}
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) ListMyGroups(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	groups, err := h.groupService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.GroupMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	message, err := h.groupService.SendMessage(c.Request.Context(), c.Param("groupId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *GroupHandler) GetMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	messages, err := h.groupService.Messages(c.Request.Context(), c.Param("groupId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
