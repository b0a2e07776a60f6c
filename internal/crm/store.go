package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for clients. All queries are scoped to
// the owning user; a lookup for another user's client behaves exactly like a
// lookup for a nonexistent one.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new client store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts a new client owned by ownerID.
func (s *Store) Create(ctx context.Context, ownerID string, in CreateClientInput) (*Client, error) {
	c := &Client{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO clients (id, user_id, name, phone)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, name, phone, created_at, updated_at`,
		uuid.New().String(), ownerID, in.Name, in.Phone,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return c, nil
}

// GetForOwner retrieves a client by id, restricted to the given owner.
// Returns pgx.ErrNoRows (wrapped) when the client does not exist or belongs
// to someone else.
func (s *Store) GetForOwner(ctx context.Context, id, ownerID string) (*Client, error) {
	c := &Client{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, phone, created_at, updated_at
		 FROM clients WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return c, nil
}

// List returns all clients owned by ownerID ordered by created_at DESC.
func (s *Store) List(ctx context.Context, ownerID string) ([]*Client, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, phone, created_at, updated_at
		 FROM clients WHERE user_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*Client
	for rows.Next() {
		c := &Client{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning client row: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Update performs a partial update on the client with the given id, scoped
// to the owner.
func (s *Store) Update(ctx context.Context, id, ownerID string, in UpdateClientInput) (*Client, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Phone != nil {
		setClauses = append(setClauses, fmt.Sprintf("phone = $%d", argIdx))
		args = append(args, *in.Phone)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetForOwner(ctx, id, ownerID)
	}

	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id, ownerID)
	query := fmt.Sprintf(
		`UPDATE clients SET %s WHERE id = $%d AND user_id = $%d
		 RETURNING id, user_id, name, phone, created_at, updated_at`,
		strings.Join(setClauses, ", "), argIdx, argIdx+1,
	)

	c := &Client{}
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating client: %w", err)
	}
	return c, nil
}

// Delete removes a client by id, scoped to the owner. Meetings and scheduled
// meetings cascade at the database level. Returns pgx.ErrNoRows (wrapped)
// when nothing was deleted.
func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM clients WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting client: %w", pgx.ErrNoRows)
	}
	return nil
}
