// AngelaMos | 2026
// postgres.go

// Package coretest connects repository tests to a real Postgres.
package coretest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/config"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

// Postgres opens the database named by DATABASE_URL and applies every
// migration. The test is skipped when the variable is unset. Tests share
// the database, so they must create their own rows and only assert on them.
func Postgres(t testing.TB) *core.Database {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, core.Migrate(db))
	return db
}
