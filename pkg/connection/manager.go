// Package connection manages the database handle used for metadata probes.
package connection

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Manager wraps the shared *sql.DB used by the metadata provider.
//
// All operations issued through the manager are reads (metadata probes and
// INFORMATION_SCHEMA lookups); the driver's pool handles concurrency, so
// no extra locking is needed here.
type Manager struct {
	db *sql.DB
}

// NewManager creates a connection manager for the given database handle.
func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// Open dials a MySQL database, verifies connectivity and returns a
// manager around the pooled handle.
func Open(ctx context.Context, dsn string) (*Manager, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Manager{db: db}, nil
}

// Query executes a read query.
func (m *Manager) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return m.db.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that is expected to return at most one row.
func (m *Manager) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return m.db.QueryRowContext(ctx, query, args...)
}

// DatabaseName returns the schema the connection is attached to.
func (m *Manager) DatabaseName(ctx context.Context) (string, error) {
	var name sql.NullString
	if err := m.db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&name); err != nil {
		return "", fmt.Errorf("resolve current database: %w", err)
	}
	if !name.Valid || name.String == "" {
		return "", fmt.Errorf("no database selected in DSN")
	}
	return name.String, nil
}

// Close closes the underlying handle.
func (m *Manager) Close() error {
	return m.db.Close()
}
