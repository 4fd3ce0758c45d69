package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect holds the SQL that differs between Postgres and SQLite.
type Dialect struct {
	Name   string
	Schema string
	Get    string
	Upsert string
}

var Postgres = Dialect{
	Name: "postgres",
	Schema: `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);`,
	Get: `SELECT value FROM kv_store WHERE key = $1`,
	Upsert: `
INSERT INTO kv_store (key, value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
}

var SQLite = Dialect{
	Name: "sqlite",
	Schema: `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);`,
	Get: `SELECT value FROM kv_store WHERE key = ?`,
	Upsert: `
INSERT INTO kv_store (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
}

// SQL stores values in a single kv_store table.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQL ensures the kv_store table exists. The returned backend owns db
// and closes it on Close.
func NewSQL(db *sql.DB, dialect Dialect) (*SQL, error) {
	if _, err := db.Exec(dialect.Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create %s schema: %w", dialect.Name, err)
	}
	return &SQL{db: db, dialect: dialect}, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.Get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Upsert, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error { return s.db.Close() }
