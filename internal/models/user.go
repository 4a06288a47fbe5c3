package models

import "time"

// User is a registered identity. Usernames are unique and immutable;
// credentials live in the external identity service.
type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
