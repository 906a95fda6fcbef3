package services

import (
	"context"
	"math/rand"
)

// ChatUpdate is one inbound message pulled from the external chat platform.
type ChatUpdate struct {
	ChatID string
	Text   string
}

// ChatGateway is the port to the external chat platform. The adapter owns
// a monotonic last-seen-update cursor: FetchNewUpdates returns only updates
// not previously returned and advances the cursor after a successful fetch,
// never after a failed one. SendReply does not retry; retry policy belongs
// to the caller.
type ChatGateway interface {
	FetchNewUpdates(ctx context.Context) ([]ChatUpdate, error)
	SendReply(ctx context.Context, chatID, text string) error
}

// Responder synthesizes a reply for an incoming message. Implementations
// must be synchronous and side-effect-free.
type Responder interface {
	Reply(incoming string) string
}

var defaultReplies = []string{
	"Hello!",
	"How are you?",
	"Nice to meet you!",
	"Welcome!",
}

type cannedResponder struct {
	replies []string
}

// NewCannedResponder picks pseudo-randomly from a fixed corpus. An empty
// corpus falls back to the default one.
func NewCannedResponder(replies []string) Responder {
	if len(replies) == 0 {
		replies = defaultReplies
	}
	return &cannedResponder{replies: replies}
}

func (r *cannedResponder) Reply(string) string {
	return r.replies[rand.Intn(len(r.replies))]
}
