package services

import (
	"context"

	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
)

type UserService interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// ListWithFollowStatus - все пользователи кроме смотрящего, со статусом подписки на каждого
	ListWithFollowStatus(ctx context.Context, viewerID string) ([]dto.UserListItem, error)
}

type userService struct {
	store repositories.Store
}

func NewUserService(store repositories.Store) UserService {
	return &userService{store: store}
}

func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}

func (s *userService) ListWithFollowStatus(ctx context.Context, viewerID string) ([]dto.UserListItem, error) {
	var (
		users     []models.User
		following []string
		pending   []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.store.Users().FindAllExcept(gctx, viewerID)
		return err
	})
	g.Go(func() (err error) {
		following, err = s.store.Follows().FollowingIDs(gctx, viewerID)
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.store.Notifications().PendingRecipients(gctx, viewerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	followingSet := toSet(following)
	pendingSet := toSet(pending)

	items := make([]dto.UserListItem, 0, len(users))
	for _, u := range users {
		item := dto.UserListItem{
			ID:        u.ID,
			Username:  u.Username,
			Name:      u.Name,
			Email:     u.Email,
			Avatar:    u.Avatar,
			CreatedAt: u.CreatedAt,
		}
		// подписка важнее висящей заявки
		switch {
		case has(followingSet, u.ID):
			item.IsFollowing = true
			item.FollowStatus = statusPtr(FollowStatusFollowing)
		case has(pendingSet, u.ID):
			item.FollowStatus = statusPtr(FollowStatusPending)
		}
		items = append(items, item)
	}
	return items, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func has(set map[string]struct{}, id string) bool {
	_, ok := set[id]
	return ok
}

func statusPtr(s FollowStatus) *string {
	v := string(s)
	return &v
}
