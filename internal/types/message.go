package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message direction relative to this service: incoming messages were
// received from Telegram, outgoing messages were sent to it. The direction
// never changes once the message is appended.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;index;not null;column:conversation_id" json:"conversation_id"`
	Text           string    `gorm:"not null;column:text" json:"text"`
	Direction      string    `gorm:"not null;column:direction" json:"direction"`
	CreatedAt      time.Time `gorm:"not null;index" json:"created_at"`
}

func (Message) TableName() string {
	return "message"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
