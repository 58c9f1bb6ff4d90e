package services

import (
	"context"
	"strings"

	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"
)

type GroupService interface {
	// Create - создатель всегда становится участником
	Create(ctx context.Context, creatorID string, req *dto.CreateGroupRequest) (*models.Group, error)
	SendMessage(ctx context.Context, groupID, senderID string, req *dto.GroupMessageRequest) (*models.Message, error)
	Messages(ctx context.Context, groupID, userID string) ([]models.Message, error)
	ListForUser(ctx context.Context, userID string) ([]models.Group, error)
	// GroupIDsFor нужен ws.Dispatcher для joinGroups
	GroupIDsFor(ctx context.Context, userID string) ([]string, error)
}

type groupService struct {
	store  repositories.Store
	fanout FanOut
}

func NewGroupService(store repositories.Store, fanout FanOut) GroupService {
	return &groupService{store: store, fanout: fanout}
}

func (s *groupService) Create(ctx context.Context, creatorID string, req *dto.CreateGroupRequest) (*models.Group, error) {
	members := uniqueExcept(append([]string{creatorID}, req.Members...), "")

	group := &models.Group{
		Name:        strings.TrimSpace(req.Name),
		Members:     members,
		CreatedByID: creatorID,
	}
	if err := s.store.Groups().Create(ctx, group); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Group created", "group_id", group.ID, "members", len(members))
	return group, nil
}

func (s *groupService) SendMessage(ctx context.Context, groupID, senderID string, req *dto.GroupMessageRequest) (*models.Message, error) {
	group, err := s.memberGroup(ctx, groupID, senderID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.ErrMessageTargetMissing
	}

	message := &models.Message{SenderID: senderID, GroupID: &group.ID, Content: content}
	if err := s.store.Messages().Create(ctx, message); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if sender, err := s.store.Users().FindByID(ctx, senderID); err == nil {
		message.Sender = sender.Summary()
	}

	logger.CtxInfo(ctx, "Group message sent", "group_id", group.ID, "message_id", message.ID)
	s.fanout.OnGroupMessage(ctx, message, group)
	return message, nil
}

func (s *groupService) Messages(ctx context.Context, groupID, userID string) ([]models.Message, error) {
	if _, err := s.memberGroup(ctx, groupID, userID); err != nil {
		return nil, err
	}

	messages, err := s.store.Messages().ForGroup(ctx, groupID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if err := populateMessageUsers(ctx, s.store.Users(), messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *groupService) ListForUser(ctx context.Context, userID string) ([]models.Group, error) {
	groups, err := s.store.Groups().FindByMember(ctx, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return groups, nil
}

func (s *groupService) GroupIDsFor(ctx context.Context, userID string) ([]string, error) {
	groups, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

func (s *groupService) memberGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := s.store.Groups().FindByID(ctx, groupID)
	if err != nil {
		return nil, groupLookupError(err)
	}
	if !group.HasMember(userID) {
		return nil, apperrors.ErrNotGroupMember
	}
	return group, nil
}
