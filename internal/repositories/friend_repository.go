package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"relay-service/internal/models"
)

var (
	ErrRelationNotFound = errors.New("friend relation not found")
	// ErrRelationExists is returned when the conditional insert finds a live
	// relation in either direction for the pair.
	ErrRelationExists = errors.New("friend relation already exists")
)

// FriendRepository defines persistence for friend relations.
type FriendRepository interface {
	CreateRequest(ctx context.Context, from, to string) (models.FriendRelation, error)
	GetByID(ctx context.Context, id int) (models.FriendRelation, error)
	GetDirected(ctx context.Context, from, to string) (models.FriendRelation, error)
	Accept(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	ListFriends(ctx context.Context, username string) ([]string, error)
	ListPending(ctx context.Context, username string) ([]models.FriendRelation, error)
}

// FriendRepo is a sqlx-backed repository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

// CreateRequest inserts a pending relation from→to as a single conditional
// insert: it fails with ErrRelationExists when a live relation already exists
// in either direction for the pair. Together with the partial
// unique index this makes concurrent duplicate requests safe.
func (r *FriendRepo) CreateRequest(ctx context.Context, from, to string) (models.FriendRelation, error) {
	query := `INSERT INTO friend_relations (from_username, to_username, status)
        SELECT $1, $2, 'pending'
        WHERE NOT EXISTS (
            SELECT 1 FROM friend_relations
            WHERE from_username=$1 AND to_username=$2 AND status IN ('pending', 'accepted')
        ) AND NOT EXISTS (
            SELECT 1 FROM friend_relations
            WHERE from_username=$2 AND to_username=$1 AND status IN ('pending', 'accepted')
        )
        RETURNING id, from_username, to_username, status, created_at`
	var rel models.FriendRelation
	err := r.db.QueryRowxContext(ctx, query, from, to).
		Scan(&rel.ID, &rel.From, &rel.To, &rel.Status, &rel.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRelation{}, ErrRelationExists
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return models.FriendRelation{}, ErrRelationExists
	}
	return rel, err
}

// GetByID fetches a relation by id.
func (r *FriendRepo) GetByID(ctx context.Context, id int) (models.FriendRelation, error) {
	var rel models.FriendRelation
	err := r.db.GetContext(ctx, &rel, `SELECT id, from_username, to_username, status, created_at FROM friend_relations WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRelation{}, ErrRelationNotFound
	}
	return rel, err
}

// GetDirected fetches the live relation from→to, if any.
func (r *FriendRepo) GetDirected(ctx context.Context, from, to string) (models.FriendRelation, error) {
	var rel models.FriendRelation
	err := r.db.GetContext(ctx, &rel, `SELECT id, from_username, to_username, status, created_at FROM friend_relations
        WHERE from_username=$1 AND to_username=$2 AND status IN ('pending', 'accepted')`, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRelation{}, ErrRelationNotFound
	}
	return rel, err
}

// Accept transitions a pending relation to accepted.
func (r *FriendRepo) Accept(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE friend_relations SET status='accepted' WHERE id=$1 AND status='pending'`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRelationNotFound
	}
	return nil
}

// Delete removes a relation row entirely. Rejection keeps no terminal state.
func (r *FriendRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friend_relations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRelationNotFound
	}
	return nil
}

// ListFriends returns the accepted counterparts of an identity. This is the
// single place the directional rows are union-read into an undirected view.
func (r *FriendRepo) ListFriends(ctx context.Context, username string) ([]string, error) {
	query := `SELECT to_username FROM friend_relations WHERE from_username=$1 AND status='accepted'
        UNION
        SELECT from_username FROM friend_relations WHERE to_username=$1 AND status='accepted'`
	var friends []string
	err := r.db.SelectContext(ctx, &friends, query, username)
	return friends, err
}

// ListPending returns requests addressed to the identity, most recent first.
func (r *FriendRepo) ListPending(ctx context.Context, username string) ([]models.FriendRelation, error) {
	query := `SELECT id, from_username, to_username, status, created_at FROM friend_relations
        WHERE to_username=$1 AND status='pending'
        ORDER BY created_at DESC`
	var rels []models.FriendRelation
	err := r.db.SelectContext(ctx, &rels, query, username)
	return rels, err
}
