// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Upsert(ctx context.Context, admin *Admin) (bool, error)
	UpdateProfile(ctx context.Context, id string, email, passwordHash *string) (*Admin, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*Admin, error)
	CompleteReset(ctx context.Context, id, passwordHash string) error
	Overview(ctx context.Context) (*Overview, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const adminColumns = `id, email, password_hash, reset_token_hash,
		       reset_token_expires_at, created_at, updated_at`

func (r *repository) GetByID(ctx context.Context, id string) (*Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	var a Admin
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get admin: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}

	return &a, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`

	var a Admin
	err := r.db.GetContext(ctx, &a, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get admin by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by email: %w", err)
	}

	return &a, nil
}

// Upsert creates the admin or, when the email exists, replaces its password.
// The returned flag is true when a new row was inserted.
func (r *repository) Upsert(ctx context.Context, admin *Admin) (bool, error) {
	query := `
		INSERT INTO admins (id, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

	var row struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
		Inserted  bool      `db:"inserted"`
	}
	err := r.db.GetContext(ctx, &row, query, admin.ID, admin.Email, admin.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("upsert admin: %w", err)
	}

	admin.ID = row.ID
	admin.CreatedAt = row.CreatedAt
	admin.UpdatedAt = row.UpdatedAt

	return row.Inserted, nil
}

func (r *repository) UpdateProfile(
	ctx context.Context,
	id string,
	email, passwordHash *string,
) (*Admin, error) {
	query := `
		UPDATE admins
		SET email = COALESCE($2, email),
		    password_hash = COALESCE($3, password_hash),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + adminColumns

	var a Admin
	err := r.db.GetContext(ctx, &a, query, id, email, passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update admin profile: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsUniqueViolation(err, "") {
			return nil, fmt.Errorf("update admin profile: %w", core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("update admin profile: %w", err)
	}

	return &a, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE admins
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update admin password", query, id, passwordHash)
}

func (r *repository) SetResetToken(
	ctx context.Context,
	id, tokenHash string,
	expiresAt time.Time,
) error {
	query := `
		UPDATE admins
		SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "set reset token", query, id, tokenHash, expiresAt)
}

func (r *repository) GetByResetToken(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*Admin, error) {
	query := `SELECT ` + adminColumns + `
		FROM admins
		WHERE reset_token_hash = $1 AND reset_token_expires_at > $2`

	var a Admin
	err := r.db.GetContext(ctx, &a, query, tokenHash, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get admin by reset token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by reset token: %w", err)
	}

	return &a, nil
}

func (r *repository) CompleteReset(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE admins
		SET password_hash = $2,
		    reset_token_hash = NULL,
		    reset_token_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "complete reset", query, id, passwordHash)
}

func (r *repository) Overview(ctx context.Context) (*Overview, error) {
	o := &Overview{ProjectsByStatus: map[string]int{
		"PENDING":     0,
		"IN_PROGRESS": 0,
		"DELAYED":     0,
		"COMPLETED":   0,
	}}

	var clients struct {
		Total   int `db:"total"`
		Blocked int `db:"blocked"`
	}
	err := r.db.GetContext(ctx, &clients, `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE is_blocked) AS blocked
		FROM clients`)
	if err != nil {
		return nil, fmt.Errorf("count clients: %w", err)
	}
	o.Clients = clients.Total
	o.BlockedClients = clients.Blocked

	var statuses []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	err = r.db.SelectContext(ctx, &statuses, `
		SELECT status::text AS status, COUNT(*) AS count
		FROM projects
		GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	for _, s := range statuses {
		o.ProjectsByStatus[s.Status] = s.Count
		o.Projects += s.Count
	}

	if err := r.db.GetContext(ctx, &o.Entries, `SELECT COUNT(*) FROM project_entries`); err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	return o, nil
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
