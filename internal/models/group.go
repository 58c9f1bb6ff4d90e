package models

import (
	"slices"

	"gorm.io/datatypes"
)

type Group struct {
	BaseModel `bson:",inline"`
	Name      string `gorm:"size:255;not null" bson:"name" json:"name"`
	// в SQL хранится JSON-массивом в text, поиск участника - LIKE по элементу
	Members     datatypes.JSONSlice[string] `gorm:"type:text" bson:"members" json:"members"`
	CreatedByID string                      `gorm:"column:created_by;type:varchar(36);not null" bson:"createdBy" json:"createdBy"`
}

func (g *Group) HasMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}
