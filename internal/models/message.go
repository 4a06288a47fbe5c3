package models

import "time"

// Message is a stored ciphertext payload exchanged between two identities.
// The relay never inspects the payload; it is opaque to this service.
type Message struct {
	ID        int       `db:"id" json:"id"`
	Sender    string    `db:"sender" json:"sender"`
	Receiver  string    `db:"receiver" json:"receiver"`
	Payload   string    `db:"payload" json:"payload"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}
