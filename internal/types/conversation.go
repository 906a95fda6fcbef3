package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation pairs one external Telegram chat with an optional owning
// account and its message history. Exactly one row exists per chat id.
type Conversation struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID    string     `gorm:"uniqueIndex;not null;column:chat_id" json:"chat_id"`
	OwnerID   *uuid.UUID `gorm:"type:uuid;index;column:owner_id" json:"owner_id"`
	Owner     *User      `gorm:"foreignKey:OwnerID;references:ID" json:"-"`
	Messages  []*Message `gorm:"constraint:OnDelete:CASCADE;foreignKey:ConversationID;references:ID" json:"messages,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversation"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether the conversation is owned by the given account.
// An unowned conversation (bot-only chat) belongs to nobody.
func (c *Conversation) OwnedBy(userID uuid.UUID) bool {
	return c.OwnerID != nil && *c.OwnerID == userID
}
