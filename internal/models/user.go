package models

type User struct {
	BaseModel    `bson:",inline"`
	Username     string `gorm:"size:64;uniqueIndex;not null" bson:"username" json:"username"`
	Email        string `gorm:"size:255;uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash string `gorm:"column:password;not null" bson:"password" json:"-"`
	Name         string `gorm:"size:128" bson:"name" json:"name"`
	Avatar       string `bson:"avatar" json:"avatar"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

func (u *User) Contact() *UserContact {
	return &UserContact{ID: u.ID, Name: u.Name, Email: u.Email}
}

// DisplayName - имя для push-событий (senderName)
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Name
}
