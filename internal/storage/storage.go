// Package storage provides the key-value backends the task list is persisted to.
// Every backend stores opaque byte values under string keys.
package storage

import (
	"context"
	"errors"
	"fmt"

	"tasklist/internal/config"
	"tasklist/internal/db"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a key-value persistence service.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	Close() error
}

// Open returns the backend selected by cfg.Driver.
func Open(cfg config.StorageConfig, dbCfg config.DBConfig) (Backend, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.Path)
	case "sqlite":
		conn, err := db.Connect("sqlite", cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewSQL(conn, SQLite)
	case "postgres":
		conn, err := db.Connect("postgres", dbCfg.ConnString())
		if err != nil {
			return nil, err
		}
		return NewSQL(conn, Postgres)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
