package dto

// SendMessageRequest - POST /chat/send. Нужен content и receiver либо group
type SendMessageRequest struct {
	Receiver string `json:"receiver" validate:"omitempty,entity_id"`
	Group    string `json:"group" validate:"omitempty,entity_id"`
	Content  string `json:"content" validate:"max=5000"`
}

// CreateGroupRequest - POST /group/create, создатель добавляется автоматически
type CreateGroupRequest struct {
	Name    string   `json:"name" validate:"required,max=255"`
	Members []string `json:"members" validate:"dive,entity_id"`
}

type GroupMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}
