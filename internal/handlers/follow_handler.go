package handlers

import (
	"net/http"

	"jobnest_backend/internal/services"
	"jobnest_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	*BaseHandler
	followService services.FollowService
}

func NewFollowHandler(base *BaseHandler, followService services.FollowService) *FollowHandler {
	return &FollowHandler{
		BaseHandler:   base,
		followService: followService,
	}
}

func (h *FollowHandler) RegisterRoutes(rg *gin.RouterGroup, g Guards) {
	follow := rg.Group("/follow")
	follow.Use(g.Auth)
	{
		follow.POST("/request", h.SendRequest)
		follow.POST("/accept", h.Accept)
		follow.POST("/reject", h.Reject)
		follow.DELETE("", h.Unfollow)
		follow.GET("/status/:userId", h.Status)
		follow.GET("/snapshot", h.Snapshot)
	}
}

func (h *FollowHandler) SendRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.FollowRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.followService.SendRequest(c.Request.Context(), userID, req.RecipientID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FollowRequestResponse{
		Message:        "Follow request sent",
		NotificationID: request.ID,
	})
}

func (h *FollowHandler) Accept(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.FollowDecision
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.followService.Accept(c.Request.Context(), req.NotificationID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Follow request accepted"})
}

func (h *FollowHandler) Reject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.FollowDecision
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.followService.Reject(c.Request.Context(), req.NotificationID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Follow request rejected"})
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.FollowRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.followService.Unfollow(c.Request.Context(), userID, req.RecipientID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

// Status - null, "pending" или "following"
func (h *FollowHandler) Status(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status, err := h.followService.Status(c.Request.Context(), userID, c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp := dto.FollowStatusResponse{}
	if status != services.FollowStatusNone {
		s := string(status)
		resp.Status = &s
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FollowHandler) Snapshot(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	snapshot, err := h.followService.Snapshot(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
