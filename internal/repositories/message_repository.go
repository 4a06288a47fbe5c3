package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"relay-service/internal/models"
)

// MessageRepository defines persistence for relayed messages.
type MessageRepository interface {
	Create(ctx context.Context, sender, receiver, payload string) (models.Message, error)
	ListConversation(ctx context.Context, a, b string) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create stores a message. Messages are immutable once written.
func (r *MessageRepo) Create(ctx context.Context, sender, receiver, payload string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender, receiver, payload) VALUES ($1, $2, $3) RETURNING id, sender, receiver, payload, created_at`, sender, receiver, payload).
		Scan(&msg.ID, &msg.Sender, &msg.Receiver, &msg.Payload, &msg.CreatedAt)
	return msg, err
}

// ListConversation returns every message between two identities in send order.
func (r *MessageRepo) ListConversation(ctx context.Context, a, b string) ([]models.Message, error) {
	query := `SELECT id, sender, receiver, payload, created_at FROM messages
        WHERE (sender=$1 AND receiver=$2) OR (sender=$2 AND receiver=$1)
        ORDER BY created_at ASC, id ASC`
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, a, b)
	return msgs, err
}
