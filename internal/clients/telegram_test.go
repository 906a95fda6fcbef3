package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"

	"github.com/victorgraciaweb/greelow-backend/internal/logger"
)

// fakeTelegram emulates just enough of the Bot API for the adapter:
// getUpdates and sendMessage, with scriptable responses.
type fakeTelegram struct {
	mu sync.Mutex

	updatesResponses []string // JSON bodies served in order for getUpdates
	failGetUpdates   bool
	failSendMessage  bool

	seenOffsets []int64
	sentBodies  []map[string]any
}

func (f *fakeTelegram) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var params map[string]any
		_ = json.NewDecoder(r.Body).Decode(&params)

		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if offset, ok := params["offset"].(float64); ok {
				f.seenOffsets = append(f.seenOffsets, int64(offset))
			} else {
				f.seenOffsets = append(f.seenOffsets, 0)
			}
			if f.failGetUpdates {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"ok":false,"error_code":500,"description":"boom"}`)
				return
			}
			body := `{"ok":true,"result":[]}`
			if len(f.updatesResponses) > 0 {
				body = f.updatesResponses[0]
				f.updatesResponses = f.updatesResponses[1:]
			}
			fmt.Fprint(w, body)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			if f.failSendMessage {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"ok":false,"error_code":500,"description":"boom"}`)
				return
			}
			f.sentBodies = append(f.sentBodies, params)
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":1,"chat":{"id":123,"type":"private"}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"ok":false,"error_code":404,"description":"unknown method"}`)
		}
	}
}

func newTestClient(t *testing.T, fake *fakeTelegram) (*TelegramClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	client, err := NewTelegramClient(log, "test-token", bot.WithServerURL(server.URL))
	if err != nil {
		t.Fatalf("NewTelegramClient: %v", err)
	}
	return client, server
}

func TestFetchNewUpdatesAdvancesCursor(t *testing.T) {
	fake := &fakeTelegram{
		updatesResponses: []string{
			// One text message plus one non-message update; the latter is
			// skipped but still moves the cursor.
			`{"ok":true,"result":[
				{"update_id":7,"message":{"message_id":1,"date":1,"chat":{"id":123,"type":"private"},"text":"Hi"}},
				{"update_id":9}
			]}`,
			`{"ok":true,"result":[]}`,
		},
	}
	client, _ := newTestClient(t, fake)
	ctx := context.Background()

	updates, err := client.FetchNewUpdates(ctx)
	if err != nil {
		t.Fatalf("FetchNewUpdates: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(updates))
	}
	if updates[0].ChatID != "123" || updates[0].Text != "Hi" {
		t.Fatalf("unexpected update %+v", updates[0])
	}

	again, err := client.FetchNewUpdates(ctx)
	if err != nil {
		t.Fatalf("second FetchNewUpdates: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("got %d updates, want 0", len(again))
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.seenOffsets) != 2 {
		t.Fatalf("got %d getUpdates calls, want 2", len(fake.seenOffsets))
	}
	if fake.seenOffsets[0] != 1 {
		t.Fatalf("first offset = %d, want 1", fake.seenOffsets[0])
	}
	if fake.seenOffsets[1] != 10 {
		t.Fatalf("second offset = %d, want 10 (cursor past update 9)", fake.seenOffsets[1])
	}
}

func TestFetchFailureKeepsCursor(t *testing.T) {
	fake := &fakeTelegram{failGetUpdates: true}
	client, _ := newTestClient(t, fake)
	ctx := context.Background()

	if _, err := client.FetchNewUpdates(ctx); err == nil {
		t.Fatal("expected error from failing getUpdates")
	}

	fake.mu.Lock()
	fake.failGetUpdates = false
	fake.mu.Unlock()

	if _, err := client.FetchNewUpdates(ctx); err != nil {
		t.Fatalf("FetchNewUpdates after recovery: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.seenOffsets) != 2 {
		t.Fatalf("got %d getUpdates calls, want 2", len(fake.seenOffsets))
	}
	if fake.seenOffsets[1] != 1 {
		t.Fatalf("offset after failed fetch = %d, want 1 (cursor unchanged)", fake.seenOffsets[1])
	}
}

func TestSendReply(t *testing.T) {
	fake := &fakeTelegram{}
	client, _ := newTestClient(t, fake)
	ctx := context.Background()

	if err := client.SendReply(ctx, "123", "Hello!"); err != nil {
		t.Fatalf("SendReply: %v", err)
	}

	fake.mu.Lock()
	if len(fake.sentBodies) != 1 {
		t.Fatalf("got %d sendMessage calls, want 1", len(fake.sentBodies))
	}
	body := fake.sentBodies[0]
	fake.mu.Unlock()

	if body["chat_id"] != "123" {
		t.Fatalf("chat_id = %v, want 123", body["chat_id"])
	}
	if body["text"] != "Hello!" {
		t.Fatalf("text = %v, want Hello!", body["text"])
	}
}

func TestSendReplyFailure(t *testing.T) {
	fake := &fakeTelegram{failSendMessage: true}
	client, _ := newTestClient(t, fake)

	if err := client.SendReply(context.Background(), "123", "Hello!"); err == nil {
		t.Fatal("expected error from failing sendMessage")
	}
}
