package services

import (
	"context"
	"fmt"

	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/repos"
	"github.com/victorgraciaweb/greelow-backend/internal/types"
)

type IngestService interface {
	IngestExternalUpdates(ctx context.Context) error
}

type ingestService struct {
	log              *logger.Logger
	conversationRepo repos.ConversationRepo
	gateway          ChatGateway
	responder        Responder
}

func NewIngestService(log *logger.Logger, conversationRepo repos.ConversationRepo, gateway ChatGateway, responder Responder) IngestService {
	return &ingestService{
		log:              log.With("service", "IngestService"),
		conversationRepo: conversationRepo,
		gateway:          gateway,
		responder:        responder,
	}
}

// IngestExternalUpdates runs one ingestion cycle: fetch the pending
// updates, then for each one record the incoming message, send a canned
// reply and record it as outgoing. A fetch failure aborts the cycle (the
// gateway's cursor has not advanced, the next tick retries). A failure on
// one update is logged and does not stop the rest of the batch.
func (is *ingestService) IngestExternalUpdates(ctx context.Context) error {
	updates, err := is.gateway.FetchNewUpdates(ctx)
	if err != nil {
		is.log.Warn("Fetching chat updates failed, cycle aborted", "error", err)
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if len(updates) == 0 {
		return nil
	}

	is.log.Info("Processing chat updates", "count", len(updates))
	for _, update := range updates {
		if err := is.processUpdate(ctx, update); err != nil {
			is.log.Error("Failed to process chat update", "chat_id", update.ChatID, "error", err)
		}
	}
	return nil
}

func (is *ingestService) processUpdate(ctx context.Context, update ChatUpdate) error {
	conversation, err := is.conversationRepo.FindOrCreate(ctx, nil, update.ChatID)
	if err != nil {
		return fmt.Errorf("find or create conversation: %w", err)
	}

	if _, err := is.conversationRepo.AppendMessage(ctx, nil, conversation.ID, update.Text, types.DirectionIncoming); err != nil {
		return fmt.Errorf("append incoming message: %w", err)
	}

	reply := is.responder.Reply(update.Text)
	if err := is.gateway.SendReply(ctx, update.ChatID, reply); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	if _, err := is.conversationRepo.AppendMessage(ctx, nil, conversation.ID, reply, types.DirectionOutgoing); err != nil {
		return fmt.Errorf("append outgoing message: %w", err)
	}
	return nil
}
