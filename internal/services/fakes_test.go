package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/requestdata"
	"github.com/victorgraciaweb/greelow-backend/internal/types"
)

func testLogger() *logger.Logger {
	log, err := logger.New("development")
	if err != nil {
		panic(err)
	}
	return log
}

// fakeConversationRepo is an in-memory stand-in for the gorm adapter. It
// counts calls so tests can assert which store operations a use case hit.
type fakeConversationRepo struct {
	mu sync.Mutex

	byChatID map[string]*types.Conversation
	byID     map[uuid.UUID]*types.Conversation
	messages map[uuid.UUID][]*types.Message

	findOrCreateCalls int
	listAllCalls      int
	listByOwnerCalls  int
	appendCalls       int

	failAppendForText map[string]error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		byChatID:          map[string]*types.Conversation{},
		byID:              map[uuid.UUID]*types.Conversation{},
		messages:          map[uuid.UUID][]*types.Message{},
		failAppendForText: map[string]error{},
	}
}

func (f *fakeConversationRepo) addConversation(chatID string, ownerID *uuid.UUID) *types.Conversation {
	f.mu.Lock()
	defer f.mu.Unlock()
	conversation := &types.Conversation{ID: uuid.New(), ChatID: chatID, OwnerID: ownerID}
	f.byChatID[chatID] = conversation
	f.byID[conversation.ID] = conversation
	return conversation
}

func (f *fakeConversationRepo) FindOrCreate(ctx context.Context, tx *gorm.DB, chatID string) (*types.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findOrCreateCalls++
	if existing, ok := f.byChatID[chatID]; ok {
		return existing, nil
	}
	conversation := &types.Conversation{ID: uuid.New(), ChatID: chatID}
	f.byChatID[chatID] = conversation
	f.byID[conversation.ID] = conversation
	return conversation, nil
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (*types.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conversation, ok := f.byID[conversationID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *conversation
	copied.Messages = append([]*types.Message(nil), f.messages[conversationID]...)
	return &copied, nil
}

func (f *fakeConversationRepo) ListAll(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listAllCalls++
	var out []*types.Conversation
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeConversationRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listByOwnerCalls++
	var out []*types.Conversation
	for _, c := range f.byID {
		if c.OwnedBy(ownerID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) AppendMessage(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, text, direction string) (*types.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	if err, ok := f.failAppendForText[text]; ok {
		return nil, err
	}
	if _, ok := f.byID[conversationID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	message := &types.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Text:           text,
		Direction:      direction,
	}
	f.messages[conversationID] = append(f.messages[conversationID], message)
	return message, nil
}

func (f *fakeConversationRepo) messageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, msgs := range f.messages {
		total += len(msgs)
	}
	return total
}

type sentReply struct {
	chatID string
	text   string
}

type fakeGateway struct {
	mu sync.Mutex

	updates  []ChatUpdate
	fetchErr error
	sendErr  error

	fetchCalls int
	sent       []sentReply
}

func (g *fakeGateway) FetchNewUpdates(ctx context.Context) ([]ChatUpdate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchCalls++
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	return g.updates, nil
}

func (g *fakeGateway) SendReply(ctx context.Context, chatID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return g.sendErr
	}
	g.sent = append(g.sent, sentReply{chatID: chatID, text: text})
	return nil
}

func (g *fakeGateway) sentCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent)
}

func principalWith(userID uuid.UUID, roles ...string) *requestdata.RequestData {
	return &requestdata.RequestData{UserID: userID, Roles: roles}
}
