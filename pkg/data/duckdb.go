package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	name       VARCHAR PRIMARY KEY,
	value      VARCHAR NOT NULL,
	updated_at TIMESTAMP DEFAULT current_timestamp
)`

func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// DuckDBStore keeps key-value pairs in a local DuckDB file.
type DuckDBStore struct {
	db *sql.DB
}

func NewDuckDBStore(path string) (*DuckDBStore, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &DuckDBStore{db: db}, nil
}

func (s *DuckDBStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE name = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

func (s *DuckDBStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (name, value, updated_at) VALUES (?, ?, current_timestamp)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
