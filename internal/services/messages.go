package services

import (
	"context"

	"relay-service/internal/models"
	"relay-service/internal/presence"
	"relay-service/internal/repositories"
)

// MessageService persists messages and best-effort relays them to online
// receivers. Durability takes priority over delivery: the message is stored
// first, and an offline receiver is a normal outcome for the push.
type MessageService struct {
	messages repositories.MessageRepository
	registry *presence.Registry
}

// NewMessageService constructs a MessageService.
func NewMessageService(messages repositories.MessageRepository, registry *presence.Registry) *MessageService {
	return &MessageService{messages: messages, registry: registry}
}

// Send stores the message and pushes new_message to the receiver if online.
// The returned message carries the generated id and timestamp regardless of
// whether the receiver was reachable.
func (s *MessageService) Send(ctx context.Context, sender, receiver, payload string) (models.Message, error) {
	if sender == "" || receiver == "" || payload == "" {
		return models.Message{}, ErrMissingFields
	}

	msg, err := s.messages.Create(ctx, sender, receiver, payload)
	if err != nil {
		return models.Message{}, err
	}

	s.registry.Push(receiver, models.NewEvent(models.EventNewMessage, msg))
	return msg, nil
}

// Typing forwards an ephemeral typing signal. Nothing is persisted and an
// offline receiver drops the signal silently.
func (s *MessageService) Typing(sender, receiver string, isTyping bool) {
	if sender == "" || receiver == "" {
		return
	}
	s.registry.Push(receiver, models.NewEvent(models.EventUserTyping, models.TypingPayload{
		Sender:   sender,
		IsTyping: isTyping,
	}))
}

// History returns the stored conversation between two identities in send order.
func (s *MessageService) History(ctx context.Context, a, b string) ([]models.Message, error) {
	return s.messages.ListConversation(ctx, a, b)
}
