package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow - направленное ребро "follower подписан на following"
type Follow struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"_id"`
	FollowerID  string    `gorm:"column:follower_id;type:varchar(36);not null;uniqueIndex:idx_follower_following,priority:1" bson:"follower" json:"follower"`
	FollowingID string    `gorm:"column:following_id;type:varchar(36);not null;uniqueIndex:idx_follower_following,priority:2;index" bson:"following" json:"following"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	return nil
}

// FollowSnapshot - полный срез связей пользователя, payload события followStatusUpdate
type FollowSnapshot struct {
	Following []string `json:"following"`
	Followers []string `json:"followers"`
}
