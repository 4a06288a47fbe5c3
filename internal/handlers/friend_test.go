package handlers

import (
	"bytes"
	"encoding/json"
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
	"relay-service/internal/repositories"
	"relay-service/internal/services"
)

func setupFriendRouter(userRepo *mocks.UserRepositoryMock, friendRepo *mocks.FriendRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)

	friendService := services.NewFriendService(userRepo, friendRepo, presence.NewRegistry())
	handler := NewFriendHandler(friendService, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("identity", "alice")
		c.Next()
	})
	r.POST("/friends/requests", handler.SendRequest)
	r.POST("/friends/requests/:request_id/respond", handler.Respond)
	r.GET("/friends", handler.ListFriends)
	r.GET("/friends/requests/pending", handler.ListPending)
	return r
}

func TestSendRequestHTTPSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(userRepo, friendRepo)

	userRepo.On("Exists", mock.Anything, "bob").Return(true, nil).Once()
	friendRepo.On("GetDirected", mock.Anything, "alice", "bob").Return(models.FriendRelation{}, repositories.ErrRelationNotFound).Once()
	friendRepo.On("GetDirected", mock.Anything, "bob", "alice").Return(models.FriendRelation{}, repositories.ErrRelationNotFound).Once()
	friendRepo.On("CreateRequest", mock.Anything, "alice", "bob").
		Return(models.FriendRelation{ID: 9, From: "alice", To: "bob", Status: models.StatusPending}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to":"bob"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.EqualValues(t, 9, resp["request_id"])
	friendRepo.AssertExpectations(t)
}

func TestSendRequestHTTPDuplicateConflict(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(userRepo, friendRepo)

	userRepo.On("Exists", mock.Anything, "bob").Return(true, nil).Once()
	friendRepo.On("GetDirected", mock.Anything, "alice", "bob").
		Return(models.FriendRelation{ID: 1, Status: models.StatusPending}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to":"bob"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSendRequestHTTPUnknownRecipient(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupFriendRouter(userRepo, new(mocks.FriendRepositoryMock))

	userRepo.On("Exists", mock.Anything, "ghost").Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to":"ghost"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendRequestHTTPSelf(t *testing.T) {
	router := setupFriendRouter(new(mocks.UserRepositoryMock), new(mocks.FriendRepositoryMock))

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to":"alice"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondHTTPAccept(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(new(mocks.UserRepositoryMock), friendRepo)

	friendRepo.On("GetByID", mock.Anything, 5).
		Return(models.FriendRelation{ID: 5, From: "bob", To: "alice", Status: models.StatusPending}, nil).Once()
	friendRepo.On("Accept", mock.Anything, 5).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/5/respond", bytes.NewBufferString(`{"decision":"accepted"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), models.StatusAccepted)
	friendRepo.AssertExpectations(t)
}

func TestRespondHTTPUnknownRequest(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(new(mocks.UserRepositoryMock), friendRepo)

	friendRepo.On("GetByID", mock.Anything, 99).Return(models.FriendRelation{}, repositories.ErrRelationNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/99/respond", bytes.NewBufferString(`{"decision":"rejected"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRespondHTTPInvalidID(t *testing.T) {
	router := setupFriendRouter(new(mocks.UserRepositoryMock), new(mocks.FriendRepositoryMock))

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/abc/respond", bytes.NewBufferString(`{"decision":"accepted"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFriendsHTTP(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(new(mocks.UserRepositoryMock), friendRepo)

	friendRepo.On("ListFriends", mock.Anything, "alice").Return([]string{"bob"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/friends", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "bob")
}

func TestListFriendsHTTPRepoError(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(new(mocks.UserRepositoryMock), friendRepo)

	friendRepo.On("ListFriends", mock.Anything, "alice").Return(([]string)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/friends", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListPendingHTTP(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendRouter(new(mocks.UserRepositoryMock), friendRepo)

	friendRepo.On("ListPending", mock.Anything, "alice").
		Return([]models.FriendRelation{{ID: 4, From: "carol", To: "alice", Status: models.StatusPending}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/friends/requests/pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "carol")
}
