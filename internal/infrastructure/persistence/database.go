package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/outsiders/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the shared gorm connection handed to every repository.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a postgres connection pool from configuration.
// Statement-level SQL logging stays off; query visibility comes from the
// otelgorm plugin instead.
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &Database{DB: db}
	pool, err := d.sqlDB()
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return d, nil
}

func (d *Database) sqlDB() (*sql.DB, error) {
	pool, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return pool, nil
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	pool, err := d.sqlDB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// Ping verifies the connection is still alive; backs the readiness probe.
func (d *Database) Ping() error {
	pool, err := d.sqlDB()
	if err != nil {
		return err
	}
	return pool.Ping()
}

// ConnectionStats is a snapshot of the pool, exposed on the health endpoint.
type ConnectionStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
	MaxIdleClosed      int64
	MaxIdleTimeClosed  int64
	MaxLifetimeClosed  int64
}

// Stats reads the current pool counters.
func (d *Database) Stats() (ConnectionStats, error) {
	pool, err := d.sqlDB()
	if err != nil {
		return ConnectionStats{}, err
	}
	s := pool.Stats()
	return ConnectionStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration,
		MaxIdleClosed:      s.MaxIdleClosed,
		MaxIdleTimeClosed:  s.MaxIdleTimeClosed,
		MaxLifetimeClosed:  s.MaxLifetimeClosed,
	}, nil
}

// Transaction runs fn inside a single transaction, rolling back on error.
// The sale finalizer and checkout depend on this for their all-or-nothing
// stock and ledger writes.
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.DB.Transaction(fn)
}
