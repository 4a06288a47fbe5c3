package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relay-service/internal/mocks"
	"relay-service/internal/models"
	"relay-service/internal/presence"
	"relay-service/internal/services"
)

func setupMessageRouter(messageRepo *mocks.MessageRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := services.NewMessageService(messageRepo, presence.NewRegistry())
	handler := NewMessageHandler(service)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("identity", "alice")
		c.Next()
	})
	r.GET("/messages/:username", handler.GetConversation)
	return r
}

func TestGetConversationSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	router := setupMessageRouter(messageRepo)

	messageRepo.On("ListConversation", mock.Anything, "alice", "bob").
		Return([]models.Message{{ID: 1, Sender: "alice", Receiver: "bob", Payload: "ct"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages/bob", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ct")
	messageRepo.AssertExpectations(t)
}

func TestGetConversationRepoError(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	router := setupMessageRouter(messageRepo)

	messageRepo.On("ListConversation", mock.Anything, "alice", "bob").
		Return(([]models.Message)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages/bob", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetConversationEmptyIsOK(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	router := setupMessageRouter(messageRepo)

	messageRepo.On("ListConversation", mock.Anything, "alice", "bob").
		Return(([]models.Message)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages/bob", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"messages":[]`)
}
