package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the snapshot database connection.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (and if needed creates) the snapshot database.
func NewDB(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Use WAL mode for better concurrency; refresh appends race with reads.
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{
		conn: conn,
		path: dbPath,
	}, nil
}

// Migrate creates the snapshot schema if it does not exist yet.
func (db *DB) Migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS portfolio_snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	proxy_address TEXT NOT NULL,
	portfolio_total TEXT NOT NULL,
	usdc_balance TEXT NOT NULL,
	positions_value TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_address_timestamp
	ON portfolio_snapshots (proxy_address, timestamp);
CREATE INDEX IF NOT EXISTS idx_snapshots_timestamp
	ON portfolio_snapshots (timestamp);
`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate snapshot schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}
