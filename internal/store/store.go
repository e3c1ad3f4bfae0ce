// File path: internal/store/store.go
// Package store implements the Index Store (§4.3) against PostgreSQL,
// following the teacher's connection-pool-plus-migration pattern
// (internal/sqlite/store.go in the source project) but retargeted from
// sqlx+sqlite to sqlx+pgx: this domain's multi-writer ingestion and
// self-join-heavy submatch queries need a server that tolerates real
// concurrent writers, which a single-file SQLite database does not.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	// registers the "pgx" driver name with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/coddog/coddog/internal/coderr"
)

var errDatabaseURLRequired = errors.New("store: DatabaseURL is required")

// Store wraps a pooled sqlx.DB connection to the PostgreSQL catalog and
// implements every Index Store operation from §4.3.
type Store struct {
	db        *sqlx.DB
	anchorCap int64
}

// Open constructs a Store backed by PostgreSQL, migrating the schema on
// first use.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	cfg = cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", coderr.ErrBackingStoreUnavailable, err)
	}

	s := &Store{db: db, anchorCap: cfg.AnchorCap}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying sqlx.DB for callers that need raw access.
func (s *Store) DB() *sqlx.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *Store) migrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return coderr.ErrBackingStoreMissing
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back (and surfacing the original error) on failure or panic.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
