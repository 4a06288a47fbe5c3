package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relay-service/internal/models"
	"relay-service/internal/services"
)

// MessageHandler exposes conversation history reads. Sending happens over
// the realtime channel; these endpoints only serve later retrieval.
type MessageHandler struct {
	messages *services.MessageService
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// GetConversation returns every stored message between the caller and the
// named identity, in send order.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	other := c.Param("username")
	if other == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing username"})
		return
	}

	identity := c.GetString("identity")
	msgs, err := h.messages.History(c.Request.Context(), identity, other)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
