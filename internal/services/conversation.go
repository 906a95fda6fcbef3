package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/repos"
	"github.com/victorgraciaweb/greelow-backend/internal/requestdata"
	"github.com/victorgraciaweb/greelow-backend/internal/types"
)

type Pagination struct {
	Limit  int
	Offset int
}

func (p Pagination) normalized() Pagination {
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type ConversationService interface {
	ListConversations(ctx context.Context, principal *requestdata.RequestData, pagination Pagination) ([]*types.Conversation, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID, principal *requestdata.RequestData) ([]*types.Message, error)
	SendMessage(ctx context.Context, conversationID uuid.UUID, content string, principal *requestdata.RequestData) (*types.Message, error)
}

type conversationService struct {
	log              *logger.Logger
	conversationRepo repos.ConversationRepo
	gateway          ChatGateway
}

func NewConversationService(log *logger.Logger, conversationRepo repos.ConversationRepo, gateway ChatGateway) ConversationService {
	return &conversationService{
		log:              log.With("service", "ConversationService"),
		conversationRepo: conversationRepo,
		gateway:          gateway,
	}
}

// ListConversations scopes the query by role: admins see everything,
// members only their own conversations. There is no per-row denial.
func (cs *conversationService) ListConversations(ctx context.Context, principal *requestdata.RequestData, pagination Pagination) ([]*types.Conversation, error) {
	if principal == nil {
		return nil, ErrForbidden
	}
	pagination = pagination.normalized()

	var conversations []*types.Conversation
	var err error
	if principal.HasRole(types.RoleAdmin) {
		conversations, err = cs.conversationRepo.ListAll(ctx, nil, pagination.Limit, pagination.Offset)
	} else {
		conversations, err = cs.conversationRepo.ListByOwner(ctx, nil, principal.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return conversations, nil
}

func (cs *conversationService) ListMessages(ctx context.Context, conversationID uuid.UUID, principal *requestdata.RequestData) ([]*types.Message, error) {
	conversation, err := cs.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(principal, conversation, ActionRead) {
		return nil, ErrForbidden
	}
	return conversation.Messages, nil
}

// SendMessage appends the outgoing message before relaying it, so history
// never misses a message the caller was told about. When the relay send
// fails the persisted message is returned together with a
// GatewayUnavailable error; it is not rolled back.
func (cs *conversationService) SendMessage(ctx context.Context, conversationID uuid.UUID, content string, principal *requestdata.RequestData) (*types.Message, error) {
	conversation, err := cs.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(principal, conversation, ActionWrite) {
		return nil, ErrForbidden
	}

	message, err := cs.conversationRepo.AppendMessage(ctx, nil, conversation.ID, content, types.DirectionOutgoing)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := cs.gateway.SendReply(ctx, conversation.ChatID, content); err != nil {
		cs.log.Warn("Message persisted but relay send failed", "conversation_id", conversation.ID, "chat_id", conversation.ChatID, "error", err)
		return message, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return message, nil
}

func (cs *conversationService) getConversation(ctx context.Context, conversationID uuid.UUID) (*types.Conversation, error) {
	conversation, err := cs.conversationRepo.GetByID(ctx, nil, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return conversation, nil
}
