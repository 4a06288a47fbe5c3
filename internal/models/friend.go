package models

import "time"

// Friend relation statuses. StatusBlocked is reserved: no operation
// currently sets or reads it.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusBlocked  = "blocked"
)

// FriendRelation is a directional row: From requested (or befriended) To.
// An accepted relation makes the pair mutual friends regardless of direction.
type FriendRelation struct {
	ID        int       `db:"id" json:"id"`
	From      string    `db:"from_username" json:"from"`
	To        string    `db:"to_username" json:"to"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
