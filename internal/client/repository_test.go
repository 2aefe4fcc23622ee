// AngelaMos | 2026
// repository_test.go

package client

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core/coretest"
)

func createClient(t *testing.T, repo Repository, db *sqlx.DB) *Client {
	t.Helper()

	c := &Client{
		ID:       uuid.NewString(),
		Username: "client-" + uuid.NewString(),
		PinHash:  "hash-" + uuid.NewString(),
	}
	require.NoError(t, repo.Create(context.Background(), c))
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DELETE FROM clients WHERE id = $1`, c.ID)
	})
	return c
}

func insertProject(t *testing.T, db *sqlx.DB, clientID string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO projects (id, title, client_id) VALUES ($1, $2, $3)`,
		id, "Apartment "+id[:8], clientID,
	)
	require.NoError(t, err)
	return id
}

func insertEntry(t *testing.T, db *sqlx.DB, projectID, fileURL string) {
	t.Helper()

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO project_entries (id, project_id, file_url, file_type) VALUES ($1, $2, $3, 'IMAGE')`,
		uuid.NewString(), projectID, fileURL,
	)
	require.NoError(t, err)
}

func countRows(t *testing.T, db *sqlx.DB, query string, arg any) int {
	t.Helper()

	var n int
	require.NoError(t, db.GetContext(context.Background(), &n, query, arg))
	return n
}

func TestRepository_DeleteCascadesProjectsAndEntries(t *testing.T) {
	db := coretest.Postgres(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	owner := createClient(t, repo, db.DB)
	neighbour := createClient(t, repo, db.DB)

	var refs, projects []string
	for p := range 3 {
		projectID := insertProject(t, db.DB, owner.ID)
		projects = append(projects, projectID)
		for e := range 2 {
			ref := fmt.Sprintf("uploads/projects/%s-%d-%d.jpg", owner.ID[:8], p, e)
			insertEntry(t, db.DB, projectID, ref)
			refs = append(refs, ref)
		}
	}
	insertProject(t, db.DB, owner.ID)

	neighbourProject := insertProject(t, db.DB, neighbour.ID)
	insertEntry(t, db.DB, neighbourProject, "uploads/projects/neighbour.jpg")

	got, err := repo.FileRefs(ctx, owner.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, refs, got)

	require.NoError(t, repo.Delete(ctx, owner.ID))

	assert.Zero(t, countRows(t, db.DB, `SELECT COUNT(*) FROM projects WHERE client_id = $1`, owner.ID))
	for _, projectID := range projects {
		assert.Zero(t, countRows(t, db.DB, `SELECT COUNT(*) FROM project_entries WHERE project_id = $1`, projectID))
	}

	left, err := repo.FileRefs(ctx, neighbour.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/projects/neighbour.jpg"}, left)

	assert.ErrorIs(t, repo.Delete(ctx, owner.ID), core.ErrNotFound)
	_, err = repo.GetByID(ctx, owner.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_ListPinHashesExcludesTarget(t *testing.T) {
	db := coretest.Postgres(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	first := createClient(t, repo, db.DB)
	second := createClient(t, repo, db.DB)

	ids := func(hashes []PinHash) map[string]string {
		out := make(map[string]string, len(hashes))
		for _, h := range hashes {
			out[h.ID] = h.PinHash
		}
		return out
	}

	all, err := repo.ListPinHashes(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first.PinHash, ids(all)[first.ID])
	assert.Equal(t, second.PinHash, ids(all)[second.ID])

	others, err := repo.ListPinHashes(ctx, first.ID)
	require.NoError(t, err)
	assert.NotContains(t, ids(others), first.ID)
	assert.Contains(t, ids(others), second.ID)
}

func TestRepository_CreateAndUpdate(t *testing.T) {
	db := coretest.Postgres(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	c := createClient(t, repo, db.DB)
	assert.False(t, c.IsBlocked)
	assert.False(t, c.CreatedAt.IsZero())

	dup := &Client{ID: uuid.NewString(), Username: c.Username, PinHash: "x"}
	assert.ErrorIs(t, repo.Create(ctx, dup), core.ErrDuplicateKey)

	require.NoError(t, repo.SetBlocked(ctx, c.ID, true))
	require.NoError(t, repo.UpdatePinHash(ctx, c.ID, "rotated"))

	got, err := repo.GetByUsername(ctx, c.Username)
	require.NoError(t, err)
	assert.True(t, got.IsBlocked)
	assert.Equal(t, "rotated", got.PinHash)

	assert.ErrorIs(t, repo.SetBlocked(ctx, uuid.NewString(), true), core.ErrNotFound)
}
