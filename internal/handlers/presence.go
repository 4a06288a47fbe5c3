package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relay-service/internal/presence"
)

// PresenceHandler exposes a read-only presence snapshot.
type PresenceHandler struct {
	registry *presence.Registry
}

// NewPresenceHandler builds a PresenceHandler.
func NewPresenceHandler(registry *presence.Registry) *PresenceHandler {
	return &PresenceHandler{registry: registry}
}

// Get reports whether an identity currently has an active connection.
func (h *PresenceHandler) Get(c *gin.Context) {
	username := c.Param("username")
	_, online := h.registry.Lookup(username)
	c.JSON(http.StatusOK, gin.H{"identity": username, "online": online})
}
