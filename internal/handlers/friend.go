package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"relay-service/internal/models"
	"relay-service/internal/services"
	"relay-service/internal/telemetry"
)

// FriendHandler exposes the HTTP variants of the friend-request workflow.
// Unlike the realtime variant, creating a request over HTTP does not push a
// new_friend_request event to the recipient; accept/reject notifications
// still go out to whichever parties are online.
type FriendHandler struct {
	friends *services.FriendService
	emitter *telemetry.AuditEmitter
}

// NewFriendHandler builds a FriendHandler.
func NewFriendHandler(friends *services.FriendService, emitter *telemetry.AuditEmitter) *FriendHandler {
	return &FriendHandler{friends: friends, emitter: emitter}
}

// SendRequest creates a pending friend request from the caller.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req struct {
		To string `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := c.GetString("identity")
	rel, err := h.friends.SendRequest(c.Request.Context(), identity, req.To, false)
	if err != nil {
		c.JSON(friendErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO",
		fmt.Sprintf("friend request %d created", rel.ID),
		requestIDFromContext(c), identityFromContext(c))
	c.JSON(http.StatusCreated, gin.H{"request_id": rel.ID, "created_at": rel.CreatedAt})
}

// Respond accepts or rejects a pending request addressed to the caller.
func (h *FriendHandler) Respond(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rel, err := h.friends.Respond(c.Request.Context(), requestID, req.Decision)
	if err != nil {
		c.JSON(friendErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO",
		fmt.Sprintf("friend request %d %s", rel.ID, req.Decision),
		requestIDFromContext(c), identityFromContext(c))
	c.JSON(http.StatusOK, gin.H{"request_id": rel.ID, "status": rel.Status})
}

// ListFriends returns the caller's accepted friends.
func (h *FriendHandler) ListFriends(c *gin.Context) {
	identity := c.GetString("identity")
	friends, err := h.friends.ListFriends(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}
	if friends == nil {
		friends = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// ListPending returns requests awaiting the caller's decision.
func (h *FriendHandler) ListPending(c *gin.Context) {
	identity := c.GetString("identity")
	rels, err := h.friends.ListPending(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pending requests"})
		return
	}

	type pendingResponse struct {
		RequestID int       `json:"request_id"`
		From      string    `json:"from"`
		CreatedAt time.Time `json:"created_at"`
	}
	resp := lo.Map(rels, func(rel models.FriendRelation, _ int) pendingResponse {
		return pendingResponse{RequestID: rel.ID, From: rel.From, CreatedAt: rel.CreatedAt}
	})

	c.JSON(http.StatusOK, gin.H{"pending": resp})
}

func friendErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrSelfRequest),
		errors.Is(err, services.ErrInvalidDecision):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrAlreadyFriends),
		errors.Is(err, services.ErrReversePending),
		errors.Is(err, services.ErrNotPending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
