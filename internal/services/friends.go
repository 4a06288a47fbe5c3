package services

import (
	"context"
	"errors"

	"relay-service/internal/models"
	"relay-service/internal/presence"
	"relay-service/internal/repositories"
)

// Decisions a recipient can take on a pending friend request.
const (
	DecisionAccepted = "accepted"
	DecisionRejected = "rejected"
)

// FriendService validates and transitions friend relations and notifies
// online parties through the presence registry.
//
// Reachable states: none → pending → accepted, or back to none on rejection.
// models.StatusBlocked is declared but no transition sets or reads it.
type FriendService struct {
	users    repositories.UserRepository
	friends  repositories.FriendRepository
	registry *presence.Registry
}

// NewFriendService constructs a FriendService.
func NewFriendService(users repositories.UserRepository, friends repositories.FriendRepository, registry *presence.Registry) *FriendService {
	return &FriendService{users: users, friends: friends, registry: registry}
}

// SendRequest creates a pending relation from→to. The sequential checks
// produce precise errors for callers; under concurrent duplicates the
// conditional insert in the repository is the authority and surfaces as a
// duplicate conflict. When notify is set (the realtime variant), the
// recipient is pushed a new_friend_request event if online.
func (s *FriendService) SendRequest(ctx context.Context, from, to string, notify bool) (models.FriendRelation, error) {
	if from == "" || to == "" {
		return models.FriendRelation{}, ErrMissingFields
	}
	if from == to {
		return models.FriendRelation{}, ErrSelfRequest
	}

	exists, err := s.users.Exists(ctx, to)
	if err != nil {
		return models.FriendRelation{}, err
	}
	if !exists {
		return models.FriendRelation{}, ErrUserNotFound
	}

	if rel, err := s.friends.GetDirected(ctx, from, to); err == nil {
		if rel.Status == models.StatusAccepted {
			return models.FriendRelation{}, ErrAlreadyFriends
		}
		return models.FriendRelation{}, ErrDuplicateRequest
	} else if !errors.Is(err, repositories.ErrRelationNotFound) {
		return models.FriendRelation{}, err
	}

	if rel, err := s.friends.GetDirected(ctx, to, from); err == nil {
		// Accepted rows make the pair friends regardless of direction.
		if rel.Status == models.StatusAccepted {
			return models.FriendRelation{}, ErrAlreadyFriends
		}
		return models.FriendRelation{}, ErrReversePending
	} else if !errors.Is(err, repositories.ErrRelationNotFound) {
		return models.FriendRelation{}, err
	}

	rel, err := s.friends.CreateRequest(ctx, from, to)
	if errors.Is(err, repositories.ErrRelationExists) {
		// Lost a race against an equivalent request.
		return models.FriendRelation{}, ErrDuplicateRequest
	}
	if err != nil {
		return models.FriendRelation{}, err
	}

	if notify {
		s.registry.Push(to, models.NewEvent(models.EventNewFriendRequest, models.FriendRequestPayload{
			RequestID: rel.ID,
			From:      rel.From,
			To:        rel.To,
			CreatedAt: rel.CreatedAt,
		}))
	}
	return rel, nil
}

// Respond applies a decision to a pending request. Accepting persists the
// transition and notifies both parties; rejecting deletes the row and
// notifies the original requester. The stored row is authoritative for who
// the requester is.
func (s *FriendService) Respond(ctx context.Context, requestID int, decision string) (models.FriendRelation, error) {
	if decision != DecisionAccepted && decision != DecisionRejected {
		return models.FriendRelation{}, ErrInvalidDecision
	}

	rel, err := s.friends.GetByID(ctx, requestID)
	if errors.Is(err, repositories.ErrRelationNotFound) {
		return models.FriendRelation{}, ErrRequestNotFound
	}
	if err != nil {
		return models.FriendRelation{}, err
	}
	if rel.Status != models.StatusPending {
		return models.FriendRelation{}, ErrNotPending
	}

	if decision == DecisionAccepted {
		if err := s.friends.Accept(ctx, rel.ID); err != nil {
			if errors.Is(err, repositories.ErrRelationNotFound) {
				return models.FriendRelation{}, ErrNotPending
			}
			return models.FriendRelation{}, err
		}
		rel.Status = models.StatusAccepted

		s.registry.Push(rel.From, models.NewEvent(models.EventFriendReqAccepted, models.FriendDecisionPayload{
			RequestID:   rel.ID,
			Counterpart: rel.To,
		}))
		s.registry.Push(rel.To, models.NewEvent(models.EventFriendReqAccepted, models.FriendDecisionPayload{
			RequestID:   rel.ID,
			Counterpart: rel.From,
		}))
		return rel, nil
	}

	if err := s.friends.Delete(ctx, rel.ID); err != nil {
		if errors.Is(err, repositories.ErrRelationNotFound) {
			return models.FriendRelation{}, ErrRequestNotFound
		}
		return models.FriendRelation{}, err
	}

	s.registry.Push(rel.From, models.NewEvent(models.EventFriendReqRejected, models.FriendDecisionPayload{
		RequestID:   rel.ID,
		Counterpart: rel.To,
	}))
	return rel, nil
}

// ListFriends returns the accepted counterparts of an identity, whichever
// direction the underlying rows point.
func (s *FriendService) ListFriends(ctx context.Context, identity string) ([]string, error) {
	return s.friends.ListFriends(ctx, identity)
}

// ListPending returns requests addressed to the identity, most recent first.
func (s *FriendService) ListPending(ctx context.Context, identity string) ([]models.FriendRelation, error) {
	return s.friends.ListPending(ctx, identity)
}
