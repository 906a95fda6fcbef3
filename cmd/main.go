package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/victorgraciaweb/greelow-backend/internal/clients"
	"github.com/victorgraciaweb/greelow-backend/internal/db"
	"github.com/victorgraciaweb/greelow-backend/internal/handlers"
	"github.com/victorgraciaweb/greelow-backend/internal/jobs"
	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/middleware"
	"github.com/victorgraciaweb/greelow-backend/internal/repos"
	"github.com/victorgraciaweb/greelow-backend/internal/server"
	"github.com/victorgraciaweb/greelow-backend/internal/services"
	"github.com/victorgraciaweb/greelow-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	telegramBotToken := utils.GetEnv("TELEGRAM_BOT_TOKEN", "", log)
	pollIntervalSec := utils.GetEnvAsInt("POLL_INTERVAL_SEC", 5, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	conversationRepo := repos.NewConversationRepo(thePG, log)

	// Telegram gateway
	log.Info("Setting up Telegram client from main...")
	if telegramBotToken == "" {
		log.Error("TELEGRAM_BOT_TOKEN is not set")
		os.Exit(1)
	}
	telegramClient, err := clients.NewTelegramClient(log, telegramBotToken)
	if err != nil {
		log.Error("Could not init TelegramClient", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up services from main...")
	authService := services.NewAuthService(
		thePG,
		log,
		userRepo,
		userTokenRepo,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	conversationService := services.NewConversationService(log, conversationRepo, telegramClient)
	responder := services.NewCannedResponder(splitList(utils.GetEnv("REPLY_CORPUS", "", log)))
	ingestService := services.NewIngestService(log, conversationRepo, telegramClient, responder)

	// Polling driver
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	poller := jobs.NewIngestPoller(log, ingestService, time.Duration(pollIntervalSec)*time.Second)
	poller.Start(ctx)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	conversationHandler := handlers.NewConversationHandler(conversationService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:         authHandler,
		ConversationHandler: conversationHandler,
		AuthMiddleware:      authMiddleware,
		CORSOrigins:         splitList(utils.GetEnv("CORS_ORIGINS", "", log)),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
