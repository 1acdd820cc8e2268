package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/inventory/inventory-api/internal/migrate"
)

// compile-time check that *Repository can drive the startup migrator
var _ migrate.Store = (*Repository)(nil)

// EnsureMigrationTable creates the schema_migrations tracking table.
func (r *Repository) EnsureMigrationTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     BIGINT PRIMARY KEY,
			name        TEXT NOT NULL,
			applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

// AppliedMigrations returns the set of recorded migration versions.
func (r *Repository) AppliedMigrations(ctx context.Context) (map[int64]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}

	versions, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan schema_migrations: %w", err)
	}

	applied := make(map[int64]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// ApplyMigration runs the migration's up SQL and records its version in a
// single transaction, so a failed migration leaves no partial schema behind.
func (r *Repository) ApplyMigration(ctx context.Context, m migrate.Migration) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, m.UpSQL); err != nil {
			return fmt.Errorf("failed to execute %s: %w", m, err)
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
			m.Version, m.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to record %s: %w", m, err)
		}
		return nil
	})
}
