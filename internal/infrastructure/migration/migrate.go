// Package migration wraps golang-migrate for the schema lifecycle commands
// exposed by cmd/migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies versioned SQL migrations against postgres.
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a Migrator on an existing database connection.
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, logger: logger}, nil
}

// run executes op and reports whether it changed anything, folding
// ErrNoChange into (false, nil).
func run(op func() error, failure string) (bool, error) {
	err := op()
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", failure, err)
	}
	return true, nil
}

// logAtVersion records the current schema version after a change.
func (m *Migrator) logAtVersion(msg string, fields ...zap.Field) error {
	version, dirty, err := m.migrate.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fields = append(fields, zap.Uint("version", version), zap.Bool("dirty", dirty))
	m.logger.Info(msg, fields...)
	return nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	changed, err := run(m.migrate.Up, "migration up failed")
	if err != nil {
		return err
	}
	if !changed {
		m.logger.Info("No migrations to apply")
		return nil
	}
	return m.logAtVersion("Migrations completed")
}

// Down rolls back every applied migration.
func (m *Migrator) Down() error {
	changed, err := run(m.migrate.Down, "migration down failed")
	if err != nil {
		return err
	}
	if !changed {
		m.logger.Info("No migrations to roll back")
		return nil
	}
	m.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations; negative n rolls back.
func (m *Migrator) Steps(n int) error {
	changed, err := run(func() error { return m.migrate.Steps(n) }, "migration steps failed")
	if err != nil {
		return err
	}
	if !changed {
		m.logger.Info("No migrations to apply")
		return nil
	}
	return m.logAtVersion("Migration steps completed", zap.Int("steps", n))
}

// GoTo migrates up or down to a specific version.
func (m *Migrator) GoTo(version uint) error {
	changed, err := run(
		func() error { return m.migrate.Migrate(version) },
		fmt.Sprintf("migration to version %d failed", version),
	)
	if err != nil {
		return err
	}
	if !changed {
		m.logger.Info("Already at target version", zap.Uint("version", version))
		return nil
	}
	m.logger.Info("Migrated to version", zap.Uint("version", version))
	return nil
}

// Version returns the current migration version. A fresh database reports
// version 0 without error.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running anything. Only for
// repairing a dirty state.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop destroys every object in the database.
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping database - all data will be lost")

	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}
