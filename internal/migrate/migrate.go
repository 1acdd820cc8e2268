package migrate

import (
	"context"
	"log/slog"
	"time"
)

// Store is the relational storage the migrator drives.
type Store interface {
	// Ping performs a lightweight round-trip to the database.
	Ping(ctx context.Context) error
	// EnsureMigrationTable creates the version tracking table if needed.
	EnsureMigrationTable(ctx context.Context) error
	// AppliedMigrations returns the versions already recorded.
	AppliedMigrations(ctx context.Context) (map[int64]bool, error)
	// ApplyMigration runs the up SQL and records the version atomically.
	ApplyMigration(ctx context.Context, m Migration) error
}

// Phase is the startup gate the migrator has reached.
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseConnectionVerified
	PhaseMigrated
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseConnectionVerified:
		return "connection_verified"
	case PhaseMigrated:
		return "migrated"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Migrator verifies connectivity and applies pending migrations.
// A Migrator is single-use: Run moves it forward through the phases once.
type Migrator struct {
	store      Store
	migrations []Migration
	logger     *slog.Logger
	phase      Phase
	applied    int
}

// New creates a Migrator. migrations must be sorted by version, as returned
// by Load.
func New(store Store, migrations []Migration, logger *slog.Logger) *Migrator {
	return &Migrator{
		store:      store,
		migrations: migrations,
		logger:     logger,
		phase:      PhaseStarting,
	}
}

// Phase returns the gate reached so far.
func (m *Migrator) Phase() Phase {
	return m.phase
}

// Applied returns the number of migrations applied by Run.
func (m *Migrator) Applied() int {
	return m.applied
}

// Run probes the store and, only if the probe succeeds, applies every
// pending migration. It returns *StorageUnavailableError when the probe
// fails and *MigrationError when a schema change fails.
func (m *Migrator) Run(ctx context.Context) error {
	if m.phase != PhaseStarting {
		return &MigrationError{Err: errAlreadyRun}
	}

	m.logger.Info("testing database connection")
	if err := m.store.Ping(ctx); err != nil {
		m.phase = PhaseFailed
		m.logger.Error("database connection failed", "error", err)
		return &StorageUnavailableError{Err: err}
	}
	m.phase = PhaseConnectionVerified
	m.logger.Info("database connection ok")

	m.logger.Info("running migrations", "available", len(m.migrations))
	start := time.Now()

	if err := m.migrate(ctx); err != nil {
		m.phase = PhaseFailed
		m.logger.Error("migrations failed", "error", err, "applied", m.applied)
		return err
	}

	m.phase = PhaseMigrated
	m.logger.Info("migrations complete",
		"applied", m.applied,
		"duration_ms", float64(time.Since(start).Microseconds())/1000,
	)
	return nil
}

func (m *Migrator) migrate(ctx context.Context) error {
	if err := m.store.EnsureMigrationTable(ctx); err != nil {
		return &MigrationError{Err: err}
	}

	done, err := m.store.AppliedMigrations(ctx)
	if err != nil {
		return &MigrationError{Err: err}
	}

	for _, mig := range m.migrations {
		if done[mig.Version] {
			continue
		}

		m.logger.Info("applying migration", "version", mig.Version, "name", mig.Name)
		if err := m.store.ApplyMigration(ctx, mig); err != nil {
			return &MigrationError{Version: mig.Version, Name: mig.Name, Err: err}
		}
		m.applied++
	}

	return nil
}
