package dto

// FollowRequest - тело POST /follow/request и DELETE /follow
type FollowRequest struct {
	RecipientID string `json:"recipientId" validate:"required,entity_id"`
}

// FollowDecision - тело accept/reject
type FollowDecision struct {
	NotificationID string `json:"notificationId" validate:"required,entity_id"`
}

type FollowRequestResponse struct {
	Message        string `json:"message"`
	NotificationID string `json:"notificationId"`
}

// FollowStatusResponse - status: null, "pending" или "following"
type FollowStatusResponse struct {
	Status *string `json:"status"`
}
