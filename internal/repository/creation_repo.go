package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCreationNotFound is returned when a creation does not exist or belongs to
// another user.
var ErrCreationNotFound = errors.New("creation not found")

type CreationRepository interface {
	CreateCreation(ctx context.Context, userID, prompt, content string, ctype model.CreationType, publish bool) (*model.Creation, error)
	ListCreationsByUser(ctx context.Context, userID string) ([]model.Creation, error)
	ListPublishedCreations(ctx context.Context) ([]model.Creation, error)
	SetPublish(ctx context.Context, creationID, userID string, publish bool) (*model.Creation, error)
}

type creationRepo struct {
	pool *pgxpool.Pool
}

func NewCreationRepo(pool *pgxpool.Pool) CreationRepository {
	return &creationRepo{pool: pool}
}

func (r *creationRepo) CreateCreation(ctx context.Context, userID, prompt, content string, ctype model.CreationType, publish bool) (*model.Creation, error) {
	query := `
		INSERT INTO creations (user_id, prompt, content, type, publish)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, prompt, content, type, publish, created_at
	`
	var c model.Creation
	err := r.pool.QueryRow(ctx, query, userID, prompt, content, ctype, publish).Scan(
		&c.ID,
		&c.UserID,
		&c.Prompt,
		&c.Content,
		&c.Type,
		&c.Publish,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating creation: %w", err)
	}
	return &c, nil
}

func (r *creationRepo) ListCreationsByUser(ctx context.Context, userID string) ([]model.Creation, error) {
	query := `
		SELECT id, user_id, prompt, content, type, publish, created_at
		FROM creations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying creations: %w", err)
	}
	defer rows.Close()

	return scanCreations(rows)
}

func (r *creationRepo) ListPublishedCreations(ctx context.Context) ([]model.Creation, error) {
	query := `
		SELECT id, user_id, prompt, content, type, publish, created_at
		FROM creations
		WHERE publish = TRUE AND type = 'image'
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying published creations: %w", err)
	}
	defer rows.Close()

	return scanCreations(rows)
}

// SetPublish flips the publish flag. Ownership is enforced in the UPDATE
// predicate itself.
func (r *creationRepo) SetPublish(ctx context.Context, creationID, userID string, publish bool) (*model.Creation, error) {
	query := `
		UPDATE creations
		SET publish = $1
		WHERE id = $2 AND user_id = $3 AND type = 'image'
		RETURNING id, user_id, prompt, content, type, publish, created_at
	`
	var c model.Creation
	err := r.pool.QueryRow(ctx, query, publish, creationID, userID).Scan(
		&c.ID,
		&c.UserID,
		&c.Prompt,
		&c.Content,
		&c.Type,
		&c.Publish,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCreationNotFound
		}
		return nil, fmt.Errorf("updating publish flag: %w", err)
	}
	return &c, nil
}

func scanCreations(rows pgx.Rows) ([]model.Creation, error) {
	var creations []model.Creation
	for rows.Next() {
		var c model.Creation
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Prompt,
			&c.Content,
			&c.Type,
			&c.Publish,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning creation row: %w", err)
		}
		creations = append(creations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating creation rows: %w", err)
	}
	return creations, nil
}
