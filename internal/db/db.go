package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id SERIAL PRIMARY KEY,
            sender TEXT NOT NULL REFERENCES users(username),
            receiver TEXT NOT NULL REFERENCES users(username),
            payload TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_messages_pair
            ON messages (sender, receiver, created_at);`,
		`CREATE TABLE IF NOT EXISTS friend_relations (
            id SERIAL PRIMARY KEY,
            from_username TEXT NOT NULL REFERENCES users(username),
            to_username TEXT NOT NULL REFERENCES users(username),
            status TEXT NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		// One live relation per directed pair; rejected rows are deleted,
		// so they never collide with a later request.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_friend_relations_live
            ON friend_relations (from_username, to_username)
            WHERE status IN ('pending', 'accepted');`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
