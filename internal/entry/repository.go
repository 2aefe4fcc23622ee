// AngelaMos | 2026
// repository.go

package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

type Repository interface {
	CreateBatch(ctx context.Context, entries []Entry) error
	GetByID(ctx context.Context, id string) (*Entry, error)
	ListByProject(ctx context.Context, projectID string) ([]Entry, error)
	ListByProjects(ctx context.Context, projectIDs []string) ([]Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const entryColumns = `id, project_id, description, category, file_url, file_type, created_at`

// CreateBatch inserts every row of one upload in a single transaction.
func (r *repository) CreateBatch(ctx context.Context, entries []Entry) error {
	query := `
		INSERT INTO project_entries
		    (id, project_id, description, category, file_url, file_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for i := range entries {
			e := &entries[i]
			err := tx.GetContext(ctx, &e.CreatedAt, query,
				e.ID,
				e.ProjectID,
				e.Description,
				e.Category,
				e.FileURL,
				e.FileType,
			)
			if err != nil {
				return fmt.Errorf("create entry: %w", err)
			}
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM project_entries WHERE id = $1`

	var e Entry
	err := r.db.GetContext(ctx, &e, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get entry: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return &e, nil
}

func (r *repository) ListByProject(ctx context.Context, projectID string) ([]Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM project_entries
		WHERE project_id = $1
		ORDER BY created_at DESC`

	entries := []Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, projectID); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

func (r *repository) ListByProjects(ctx context.Context, projectIDs []string) ([]Entry, error) {
	entries := []Entry{}
	if len(projectIDs) == 0 {
		return entries, nil
	}

	query, args, err := sqlx.In(`SELECT `+entryColumns+`
		FROM project_entries
		WHERE project_id IN (?)
		ORDER BY created_at DESC`, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

func (r *repository) Update(ctx context.Context, e *Entry) error {
	query := `
		UPDATE project_entries
		SET description = $2, category = $3, file_url = $4, file_type = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Description,
		e.Category,
		e.FileURL,
		e.FileType,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update entry: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM project_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete entry: %w", core.ErrNotFound)
	}

	return nil
}
