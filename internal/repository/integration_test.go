//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inventory/inventory-api/internal/migrate"
	"github.com/inventory/inventory-api/internal/repository"
	"github.com/inventory/inventory-api/internal/testutil"
	"github.com/inventory/inventory-api/migrations"
)

// newTestEnv opens a repository against DATABASE_URL, drops the schema and
// runs every migration. The advisory lock serializes packages sharing the
// database.
func newTestEnv(t *testing.T) (context.Context, *repository.Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := repository.Open(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = unlock()
	})

	require.NoError(t, testutil.DropSchema(ctx, repo.Pool()))

	all, err := migrate.Load(migrations.FS)
	require.NoError(t, err)
	require.NoError(t, migrate.New(repo, all, testutil.DiscardLogger()).Run(ctx))

	return ctx, repo
}
