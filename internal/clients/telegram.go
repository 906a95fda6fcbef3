package clients

import (
	"context"
	"strconv"
	"sync"

	"github.com/go-telegram/bot"

	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/services"
)

// TelegramClient adapts the Telegram Bot API to the ChatGateway port.
//
// The last-seen update id is held in memory and starts at zero, so a
// restart re-delivers updates Telegram still has buffered; the ingestion
// loop tolerates that (at-least-once). The cursor only moves after a
// getUpdates call succeeds.
type TelegramClient struct {
	b   *bot.Bot
	log *logger.Logger

	mu           sync.Mutex
	lastUpdateID int64
}

func NewTelegramClient(log *logger.Logger, token string, opts ...bot.Option) (*TelegramClient, error) {
	clientLog := log.With("client", "TelegramClient")
	options := append([]bot.Option{bot.WithSkipGetMe()}, opts...)
	b, err := bot.New(token, options...)
	if err != nil {
		return nil, err
	}
	return &TelegramClient{b: b, log: clientLog}, nil
}

func (tc *TelegramClient) FetchNewUpdates(ctx context.Context) ([]services.ChatUpdate, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	updates, err := tc.b.GetUpdates(ctx, &bot.GetUpdatesParams{
		Offset: tc.lastUpdateID + 1,
	})
	if err != nil {
		return nil, err
	}

	last := tc.lastUpdateID
	out := make([]services.ChatUpdate, 0, len(updates))
	for _, u := range updates {
		if u.ID > last {
			last = u.ID
		}
		// Non-message updates (edits, joins, stickers without text) are
		// consumed but not relayed.
		if u.Message == nil || u.Message.Text == "" {
			continue
		}
		out = append(out, services.ChatUpdate{
			ChatID: strconv.FormatInt(u.Message.Chat.ID, 10),
			Text:   u.Message.Text,
		})
	}
	tc.lastUpdateID = last

	if len(out) > 0 {
		tc.log.Debug("Fetched chat updates", "count", len(out), "last_update_id", last)
	}
	return out, nil
}

func (tc *TelegramClient) SendReply(ctx context.Context, chatID, text string) error {
	_, err := tc.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		tc.log.Warn("Failed to send message", "chat_id", chatID, "error", err)
		return err
	}
	return nil
}
