package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/types"
)

// ConversationRepo is the persistence port for conversations and their
// messages. FindOrCreate never produces a duplicate row for one chat id,
// even when concurrent callers race on the same id.
type ConversationRepo interface {
	FindOrCreate(ctx context.Context, tx *gorm.DB, chatID string) (*types.Conversation, error)
	GetByID(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (*types.Conversation, error)
	ListAll(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Conversation, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Conversation, error)
	AppendMessage(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, text, direction string) (*types.Message, error)
}

type conversationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, baseLog *logger.Logger) ConversationRepo {
	return &conversationRepo{db: db, log: baseLog.With("repo", "ConversationRepo")}
}

// FindOrCreate inserts a row for the chat id unless one already exists,
// then reads back whichever row won. The insert relies on the unique index
// on chat_id, so two racing callers both end up with the same conversation.
func (cr *conversationRepo) FindOrCreate(ctx context.Context, tx *gorm.DB, chatID string) (*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	candidate := &types.Conversation{ID: uuid.New(), ChatID: chatID}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoNothing: true,
		}).
		Create(candidate).Error; err != nil {
		return nil, err
	}

	var result types.Conversation
	if err := transaction.WithContext(ctx).
		Where("chat_id = ?", chatID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *conversationRepo) GetByID(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Conversation
	if err := transaction.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", conversationID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *conversationRepo) ListAll(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Conversation
	if err := transaction.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *conversationRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Conversation
	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// AppendMessage persists one message and bumps the parent conversation's
// updated_at in the same transaction. Returns gorm.ErrRecordNotFound when
// the conversation does not exist.
func (cr *conversationRepo) AppendMessage(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, text, direction string) (*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	message := &types.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Text:           text,
		Direction:      direction,
		CreatedAt:      time.Now().UTC(),
	}

	err := transaction.WithContext(ctx).Transaction(func(innerTx *gorm.DB) error {
		var conversation types.Conversation
		if err := innerTx.Select("id").
			Where("id = ?", conversationID).
			First(&conversation).Error; err != nil {
			return err
		}
		if err := innerTx.Create(message).Error; err != nil {
			return err
		}
		return innerTx.Model(&types.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", message.CreatedAt).Error
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}
