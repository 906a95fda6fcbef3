package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/victorgraciaweb/greelow-backend/internal/db"
	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/repos"
	"github.com/victorgraciaweb/greelow-backend/internal/types"
)

type seedUser struct {
	email    string
	fullName string
	password string
	roles    []string
}

type seedConversation struct {
	userEmail string
	chatID    string
}

type seedMessage struct {
	chatID    string
	text      string
	direction string
}

var seedUsers = []seedUser{
	{email: "admin@gmail.com", fullName: "Admin User", password: "1234ABCabc", roles: []string{types.RoleAdmin}},
	{email: "member@gmail.com", fullName: "Member User", password: "1234ABCabc", roles: []string{types.RoleMember}},
}

var seedConversations = []seedConversation{
	{userEmail: "admin@gmail.com", chatID: "1613296396"},
	{userEmail: "member@gmail.com", chatID: "6666666666"},
}

var seedMessages = []seedMessage{
	{chatID: "1613296396", text: "Hola admin", direction: types.DirectionIncoming},
	{chatID: "1613296396", text: "Hola! En que puedo ayudarte?", direction: types.DirectionOutgoing},
	{chatID: "1613296396", text: "Hola member", direction: types.DirectionIncoming},
}

func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	userRepo := repos.NewUserRepo(thePG, log)
	conversationRepo := repos.NewConversationRepo(thePG, log)

	ctx := context.Background()

	usersByEmail := map[string]*types.User{}
	for _, su := range seedUsers {
		exists, err := userRepo.EmailExists(ctx, nil, su.email)
		if err != nil {
			log.Error("Failed to check seed user", "error", err)
			os.Exit(1)
		}
		if exists {
			user, err := userRepo.GetByEmail(ctx, nil, su.email)
			if err != nil {
				log.Error("Failed to load existing seed user", "error", err)
				os.Exit(1)
			}
			usersByEmail[su.email] = user
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to hash seed password", "error", err)
			os.Exit(1)
		}
		user := &types.User{
			ID:       uuid.New(),
			Email:    su.email,
			Password: string(hashed),
			FullName: su.fullName,
			Roles:    su.roles,
		}
		if _, err := userRepo.Create(ctx, nil, user); err != nil {
			log.Error("Failed to create seed user", "email", su.email, "error", err)
			os.Exit(1)
		}
		usersByEmail[su.email] = user
		log.Info("Seeded user", "email", su.email)
	}

	conversationsByChatID := map[string]*types.Conversation{}
	for _, sc := range seedConversations {
		conversation, err := conversationRepo.FindOrCreate(ctx, nil, sc.chatID)
		if err != nil {
			log.Error("Failed to seed conversation", "chat_id", sc.chatID, "error", err)
			os.Exit(1)
		}
		owner := usersByEmail[sc.userEmail]
		if owner != nil && conversation.OwnerID == nil {
			if err := thePG.WithContext(ctx).
				Model(&types.Conversation{}).
				Where("id = ?", conversation.ID).
				Update("owner_id", owner.ID).Error; err != nil {
				log.Error("Failed to assign conversation owner", "chat_id", sc.chatID, "error", err)
				os.Exit(1)
			}
		}
		conversationsByChatID[sc.chatID] = conversation
		log.Info("Seeded conversation", "chat_id", sc.chatID)
	}

	for _, sm := range seedMessages {
		conversation := conversationsByChatID[sm.chatID]
		if conversation == nil {
			continue
		}
		if _, err := conversationRepo.AppendMessage(ctx, nil, conversation.ID, sm.text, sm.direction); err != nil {
			log.Error("Failed to seed message", "chat_id", sm.chatID, "error", err)
			os.Exit(1)
		}
	}

	log.Info("Seed complete", "users", len(seedUsers), "conversations", len(seedConversations), "messages", len(seedMessages))
}
