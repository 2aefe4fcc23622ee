// AngelaMos | 2026
// repository_test.go

package entry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core/coretest"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/storage"
)

func insertProject(t *testing.T, db *sqlx.DB) string {
	t.Helper()
	ctx := context.Background()

	clientID := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO clients (id, username, pin_hash) VALUES ($1, $2, 'hash')`,
		clientID, "entries-"+clientID,
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DELETE FROM clients WHERE id = $1`, clientID)
	})

	projectID := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO projects (id, title, client_id) VALUES ($1, 'Villa', $2)`,
		projectID, clientID,
	)
	require.NoError(t, err)
	return projectID
}

func batch(projectID string, fileTypes ...string) []Entry {
	out := make([]Entry, 0, len(fileTypes))
	for _, ft := range fileTypes {
		id := uuid.NewString()
		out = append(out, Entry{
			ID:          id,
			ProjectID:   projectID,
			Description: "Ceiling work",
			Category:    CategoryTimeline,
			FileURL:     "uploads/projects/" + id,
			FileType:    ft,
		})
	}
	return out
}

func TestRepository_CreateBatch(t *testing.T) {
	db := coretest.Postgres(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()
	projectID := insertProject(t, db.DB)

	entries := batch(projectID, storage.KindImage, storage.KindVideo, storage.KindPDF)
	require.NoError(t, repo.CreateBatch(ctx, entries))
	for _, e := range entries {
		assert.False(t, e.CreatedAt.IsZero())
	}

	got, err := repo.ListByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt))
	}
}

func TestRepository_CreateBatchRollsBack(t *testing.T) {
	db := coretest.Postgres(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()
	projectID := insertProject(t, db.DB)

	entries := batch(projectID, storage.KindImage, storage.KindImage, "SPREADSHEET")
	require.Error(t, repo.CreateBatch(ctx, entries))

	got, err := repo.ListByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = repo.GetByID(ctx, entries[0].ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_ProjectDeleteCascades(t *testing.T) {
	db := coretest.Postgres(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()
	projectID := insertProject(t, db.DB)

	entries := batch(projectID, storage.KindImage, storage.KindPDF)
	require.NoError(t, repo.CreateBatch(ctx, entries))

	_, err := db.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	require.NoError(t, err)

	for _, e := range entries {
		_, err := repo.GetByID(ctx, e.ID)
		assert.ErrorIs(t, err, core.ErrNotFound)
	}
}
