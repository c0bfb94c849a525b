// Package database provides a session manager for PostgreSQL: a lazily
// opened, cached connection pool plus transaction-scoped units of work.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/glueworks/servicekit/config"
	"github.com/glueworks/servicekit/logger"
)

// openDB is injected for testability.
var openDB = func(dsn string) (*sql.DB, error) {
	pgxConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}
	return stdlib.OpenDB(*pgxConfig), nil
}

// SessionManager manages a cached connection pool for one database. The pool
// is opened lazily on first use and verified with a ping before it is handed
// out. Safe for concurrent use.
type SessionManager struct {
	cfg    *config.DatabaseConfig
	logger logger.Logger

	mu sync.Mutex
	db *sql.DB
}

// NewSessionManager creates a session manager for the given database
// configuration. No connection is opened until first use.
func NewSessionManager(cfg *config.DatabaseConfig, log logger.Logger) *SessionManager {
	return &SessionManager{
		cfg:    cfg,
		logger: log,
	}
}

// DB returns the cached connection pool, opening and pinging it on first use.
func (m *SessionManager) DB(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}

	db, err := openDB(m.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if m.cfg.MaxConns > 0 {
		db.SetMaxOpenConns(m.cfg.MaxConns)
	}
	if m.cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(m.cfg.MaxIdleConns)
	}
	if m.cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(m.cfg.ConnMaxLifetime)
	}
	if m.cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(m.cfg.ConnMaxIdleTime)
	}

	// Verify the pool before caching it
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	m.db = db
	m.logger.Info().
		Str("host", m.cfg.Host).
		Str("database", m.cfg.Database).
		Msg("Opened database connection pool")

	return db, nil
}

// Session hands out a dedicated connection from the pool. The caller owns it
// and must Close it when done.
func (m *SessionManager) Session(ctx context.Context) (*sql.Conn, error) {
	db, err := m.DB(ctx)
	if err != nil {
		return nil, err
	}
	return db.Conn(ctx)
}

// WithSession runs fn inside a transaction. The transaction is rolled back
// when fn returns an error and committed otherwise; the original error is
// always propagated to the caller.
func (m *SessionManager) WithSession(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := m.DB(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			m.logger.Error().Err(rbErr).Msg("Failed to roll back database session")
		} else {
			m.logger.Error().Err(err).Msg("Rolled back database session")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Health pings the database, opening the pool if needed.
func (m *SessionManager) Health(ctx context.Context) error {
	db, err := m.DB(ctx)
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Stats returns pool statistics, or a closed marker when no pool is open.
func (m *SessionManager) Stats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return map[string]any{"open": false}
	}

	s := m.db.Stats()
	return map[string]any{
		"open":             true,
		"open_connections": s.OpenConnections,
		"in_use":           s.InUse,
		"idle":             s.Idle,
		"max_open":         s.MaxOpenConnections,
		"wait_count":       s.WaitCount,
	}
}

// ResetCache closes and drops the cached pool; the next use reopens it.
func (m *SessionManager) ResetCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}

	err := m.db.Close()
	m.db = nil
	return err
}

// Close releases the cached pool, if any.
func (m *SessionManager) Close() error {
	return m.ResetCache()
}
