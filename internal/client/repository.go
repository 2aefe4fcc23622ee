// AngelaMos | 2026
// repository.go

package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Client, error)
	GetByID(ctx context.Context, id string) (*Client, error)
	GetByUsername(ctx context.Context, username string) (*Client, error)
	ListPinHashes(ctx context.Context, excludeID string) ([]PinHash, error)
	Create(ctx context.Context, client *Client) error
	UpdatePinHash(ctx context.Context, id, pinHash string) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
	FileRefs(ctx context.Context, id string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Client, error) {
	query := `
		SELECT id, username, pin_hash, is_blocked, created_at
		FROM clients
		ORDER BY created_at DESC`

	clients := []Client{}
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return clients, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Client, error) {
	query := `
		SELECT id, username, pin_hash, is_blocked, created_at
		FROM clients
		WHERE id = $1`

	var c Client
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get client: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}

	return &c, nil
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*Client, error) {
	query := `
		SELECT id, username, pin_hash, is_blocked, created_at
		FROM clients
		WHERE username = $1`

	var c Client
	err := r.db.GetContext(ctx, &c, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get client by username: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get client by username: %w", err)
	}

	return &c, nil
}

func (r *repository) ListPinHashes(ctx context.Context, excludeID string) ([]PinHash, error) {
	query := `SELECT id, pin_hash FROM clients`
	args := []any{}
	if excludeID != "" {
		query += ` WHERE id <> $1`
		args = append(args, excludeID)
	}

	var hashes []PinHash
	if err := r.db.SelectContext(ctx, &hashes, query, args...); err != nil {
		return nil, fmt.Errorf("list pin hashes: %w", err)
	}

	return hashes, nil
}

func (r *repository) Create(ctx context.Context, client *Client) error {
	query := `
		INSERT INTO clients (id, username, pin_hash)
		VALUES ($1, $2, $3)
		RETURNING is_blocked, created_at`

	err := r.db.GetContext(ctx, client, query,
		client.ID,
		client.Username,
		client.PinHash,
	)
	if err != nil {
		if core.IsUniqueViolation(err, "") {
			return fmt.Errorf("create client: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create client: %w", err)
	}

	return nil
}

func (r *repository) UpdatePinHash(ctx context.Context, id, pinHash string) error {
	query := `UPDATE clients SET pin_hash = $2 WHERE id = $1`

	return r.execOne(ctx, "update pin", query, id, pinHash)
}

func (r *repository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	query := `UPDATE clients SET is_blocked = $2 WHERE id = $1`

	return r.execOne(ctx, "set blocked", query, id, blocked)
}

// FileRefs returns the stored file of every entry in every project the
// client owns.
func (r *repository) FileRefs(ctx context.Context, id string) ([]string, error) {
	query := `
		SELECT e.file_url
		FROM project_entries e
		JOIN projects p ON p.id = e.project_id
		WHERE p.client_id = $1`

	var refs []string
	if err := r.db.SelectContext(ctx, &refs, query, id); err != nil {
		return nil, fmt.Errorf("list client files: %w", err)
	}

	return refs, nil
}

// Delete removes the client; projects and entries go with it through the
// ON DELETE CASCADE foreign keys.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete client", `DELETE FROM clients WHERE id = $1`, id)
}

func (r *repository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
