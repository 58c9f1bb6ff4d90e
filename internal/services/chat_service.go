package services

import (
	"context"
	"errors"
	"strings"

	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"
)

type ChatService interface {
	// Conversation - переписка двух пользователей по возрастанию времени
	Conversation(ctx context.Context, userID, otherID string) ([]models.Message, error)
	Send(ctx context.Context, senderID string, req *dto.SendMessageRequest) (*models.Message, error)
}

type chatService struct {
	store  repositories.Store
	fanout FanOut
}

func NewChatService(store repositories.Store, fanout FanOut) ChatService {
	return &chatService{store: store, fanout: fanout}
}

func (s *chatService) Conversation(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	messages, err := s.store.Messages().Conversation(ctx, userID, otherID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if err := populateMessageUsers(ctx, s.store.Users(), messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *chatService) Send(ctx context.Context, senderID string, req *dto.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" || (req.Receiver == "" && req.Group == "") {
		return nil, apperrors.ErrMessageTargetMissing
	}

	sender, err := s.store.Users().FindByID(ctx, senderID)
	if err != nil {
		return nil, userLookupError(err)
	}

	message := &models.Message{SenderID: senderID, Content: content}

	var receiver *models.User
	if req.Receiver != "" {
		receiver, err = s.store.Users().FindByID(ctx, req.Receiver)
		if err != nil {
			return nil, userLookupError(err)
		}
		message.ReceiverID = &receiver.ID
	} else {
		group, err := s.store.Groups().FindByID(ctx, req.Group)
		if err != nil {
			return nil, groupLookupError(err)
		}
		if !group.HasMember(senderID) {
			return nil, apperrors.ErrNotGroupMember
		}
		message.GroupID = &group.ID
	}

	if err := s.store.Messages().Create(ctx, message); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	message.Sender = sender.Summary()
	if receiver != nil {
		message.Receiver = receiver.Summary()
		logger.CtxInfo(ctx, "Message sent", "message_id", message.ID, "receiver_id", receiver.ID)
		s.fanout.OnDirectMessage(ctx, message, sender)
	} else {
		logger.CtxInfo(ctx, "Group room message sent", "message_id", message.ID, "group_id", *message.GroupID)
		s.fanout.OnGroupRoomMessage(ctx, message)
	}
	return message, nil
}

// populateMessageUsers подставляет sender и receiver как {_id, username, avatar}
func populateMessageUsers(ctx context.Context, users repositories.UserRepository, messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	ids := make([]string, 0, len(messages)*2)
	for _, m := range messages {
		ids = append(ids, m.SenderID)
		if m.ReceiverID != nil {
			ids = append(ids, *m.ReceiverID)
		}
	}

	found, err := users.FindByIDs(ctx, uniqueExcept(ids, ""))
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	byID := make(map[string]*models.UserSummary, len(found))
	for i := range found {
		byID[found[i].ID] = found[i].Summary()
	}

	for i := range messages {
		messages[i].Sender = byID[messages[i].SenderID]
		if messages[i].ReceiverID != nil {
			messages[i].Receiver = byID[*messages[i].ReceiverID]
		}
	}
	return nil
}

func groupLookupError(err error) error {
	if errors.Is(err, repositories.ErrGroupNotFound) {
		return apperrors.ErrGroupNotFound
	}
	return apperrors.DatabaseError(err)
}
