package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/victorgraciaweb/greelow-backend/internal/handlers"
	"github.com/victorgraciaweb/greelow-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	ConversationHandler *handlers.ConversationHandler
	AuthMiddleware      *middleware.AuthMiddleware
	CORSOrigins         []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.POST("/auth/register", cfg.AuthHandler.Register)
	api.POST("/auth/login", cfg.AuthHandler.Login)

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)
	protected.GET("/conversations", cfg.ConversationHandler.ListConversations)
	protected.GET("/conversations/:id/messages", cfg.ConversationHandler.ListMessages)
	protected.POST("/conversations/:id/messages", cfg.ConversationHandler.SendMessage)

	return router
}
