// AngelaMos | 2026
// repository.go

package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	ListByClient(ctx context.Context, clientID string) ([]Project, error)
	UpdateStatus(ctx context.Context, id, status string) (*Project, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const projectSelect = `
		SELECT p.id, p.title, p.description, p.status, p.client_id,
		       c.username AS client_username, p.created_at, p.updated_at
		FROM projects p
		JOIN clients c ON c.id = p.client_id`

func (r *repository) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (id, title, description, client_id)
		VALUES ($1, $2, $3, $4)
		RETURNING status, created_at, updated_at`

	err := r.db.GetContext(ctx, p, query, p.ID, p.Title, p.Description, p.ClientID)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Project, error) {
	query := projectSelect + ` WHERE p.id = $1`

	var p Project
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &p, nil
}

func (r *repository) List(ctx context.Context) ([]Project, error) {
	query := projectSelect + ` ORDER BY p.created_at DESC`

	projects := []Project{}
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return projects, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID string) ([]Project, error) {
	query := projectSelect + ` WHERE p.client_id = $1 ORDER BY p.created_at DESC`

	projects := []Project{}
	if err := r.db.SelectContext(ctx, &projects, query, clientID); err != nil {
		return nil, fmt.Errorf("list client projects: %w", err)
	}

	return projects, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) (*Project, error) {
	query := `
		UPDATE projects
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, description, status, client_id, created_at, updated_at`

	var p Project
	err := r.db.GetContext(ctx, &p, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update project status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update project status: %w", err)
	}

	return &p, nil
}

// Delete removes the project and, through the foreign key, its entries.
// Stored files are not removed.
func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete project: %w", core.ErrNotFound)
	}

	return nil
}
