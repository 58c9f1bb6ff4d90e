package repositories

import (
	"context"

	"jobnest_backend/internal/models"

	"gorm.io/gorm"
)

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	FindByID(ctx context.Context, id string) (*models.Group, error)
	// FindByMember - группы, в которых состоит userID
	FindByMember(ctx context.Context, userID string) ([]models.Group, error)
}

type GroupRepositoryImpl struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GroupRepositoryImpl{db: db}
}

func (r *GroupRepositoryImpl) Create(ctx context.Context, group *models.Group) error {
	return translate(r.db.WithContext(ctx).Create(group).Error, nil)
}

func (r *GroupRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrGroupNotFound)
	}
	return &group, nil
}

func (r *GroupRepositoryImpl) FindByMember(ctx context.Context, userID string) ([]models.Group, error) {
	groups := []models.Group{}
	err := r.db.WithContext(ctx).
		Where("members LIKE ? ESCAPE '!'", elementPattern(userID)).
		Order("created_at ASC").
		Find(&groups).Error
	return groups, err
}
