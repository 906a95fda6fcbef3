package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/victorgraciaweb/greelow-backend/internal/requestdata"
	"github.com/victorgraciaweb/greelow-backend/internal/services"
)

type ConversationHandler struct {
	conversationService services.ConversationService
}

func NewConversationHandler(conversationService services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// ListConversations returns the conversations visible to the caller:
// all of them for admins, only owned ones for members.
func (ch *ConversationHandler) ListConversations(c *gin.Context) {
	principal := requestdata.GetRequestData(c.Request.Context())

	pagination := services.Pagination{
		Limit:  queryInt(c, "limit", 10),
		Offset: queryInt(c, "offset", 0),
	}

	conversations, err := ch.conversationService.ListConversations(c.Request.Context(), principal, pagination)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, conversations)
}

func (ch *ConversationHandler) ListMessages(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_conversation_id", errors.New("conversation id must be a uuid"))
		return
	}
	principal := requestdata.GetRequestData(c.Request.Context())

	messages, err := ch.conversationService.ListMessages(c.Request.Context(), conversationID, principal)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, messages)
}

func (ch *ConversationHandler) SendMessage(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_conversation_id", errors.New("conversation id must be a uuid"))
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("content is required"))
		return
	}
	principal := requestdata.GetRequestData(c.Request.Context())

	message, err := ch.conversationService.SendMessage(c.Request.Context(), conversationID, req.Content, principal)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
