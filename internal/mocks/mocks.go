package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"relay-service/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) Exists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, sender, receiver, payload string) (models.Message, error) {
	args := m.Called(ctx, sender, receiver, payload)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListConversation(ctx context.Context, a, b string) ([]models.Message, error) {
	args := m.Called(ctx, a, b)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) CreateRequest(ctx context.Context, from, to string) (models.FriendRelation, error) {
	args := m.Called(ctx, from, to)
	var rel models.FriendRelation
	if val := args.Get(0); val != nil {
		rel = val.(models.FriendRelation)
	}
	return rel, args.Error(1)
}

func (m *FriendRepositoryMock) GetByID(ctx context.Context, id int) (models.FriendRelation, error) {
	args := m.Called(ctx, id)
	var rel models.FriendRelation
	if val := args.Get(0); val != nil {
		rel = val.(models.FriendRelation)
	}
	return rel, args.Error(1)
}

func (m *FriendRepositoryMock) GetDirected(ctx context.Context, from, to string) (models.FriendRelation, error) {
	args := m.Called(ctx, from, to)
	var rel models.FriendRelation
	if val := args.Get(0); val != nil {
		rel = val.(models.FriendRelation)
	}
	return rel, args.Error(1)
}

func (m *FriendRepositoryMock) Accept(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *FriendRepositoryMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListFriends(ctx context.Context, username string) ([]string, error) {
	args := m.Called(ctx, username)
	var friends []string
	if val := args.Get(0); val != nil {
		friends = val.([]string)
	}
	return friends, args.Error(1)
}

func (m *FriendRepositoryMock) ListPending(ctx context.Context, username string) ([]models.FriendRelation, error) {
	args := m.Called(ctx, username)
	var rels []models.FriendRelation
	if val := args.Get(0); val != nil {
		rels = val.([]models.FriendRelation)
	}
	return rels, args.Error(1)
}
