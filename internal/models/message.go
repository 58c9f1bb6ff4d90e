package models

import "encoding/json"

// Message - личное (ReceiverID) или групповое (GroupID) сообщение
type Message struct {
	BaseModel  `bson:",inline"`
	SenderID   string  `gorm:"column:sender_id;type:varchar(36);not null;index" bson:"sender" json:"-"`
	ReceiverID *string `gorm:"column:receiver_id;type:varchar(36);index" bson:"receiver,omitempty" json:"-"`
	GroupID    *string `gorm:"column:group_id;type:varchar(36);index" bson:"group,omitempty" json:"group,omitempty"`
	Content    string  `gorm:"type:text;not null" bson:"content" json:"content"`

	Sender   *UserSummary `gorm:"-" bson:"-" json:"-"`
	Receiver *UserSummary `gorm:"-" bson:"-" json:"-"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	type plain Message
	var sender any = m.SenderID
	if m.Sender != nil {
		sender = m.Sender
	}
	var receiver any
	switch {
	case m.Receiver != nil:
		receiver = m.Receiver
	case m.ReceiverID != nil:
		receiver = *m.ReceiverID
	}
	return json.Marshal(struct {
		plain
		Sender   any `json:"sender"`
		Receiver any `json:"receiver,omitempty"`
	}{plain(m), sender, receiver})
}
