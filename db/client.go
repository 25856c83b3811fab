package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var (
	ErrNotConnected = errors.New("store not connected")
	ErrNotFound     = errors.New("record not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS benchmarks (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	model_name   TEXT NOT NULL,
	source       TEXT NOT NULL,
	quantization TEXT NOT NULL,
	prompt       TEXT NOT NULL,
	prompt_hash  TEXT NOT NULL,
	notes        TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	response     TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT '',
	metrics      TEXT,
	quality      TEXT
);
CREATE INDEX IF NOT EXISTS idx_benchmarks_prompt_hash ON benchmarks(prompt_hash);
CREATE INDEX IF NOT EXISTS idx_benchmarks_created_at ON benchmarks(created_at);
`

// Client is the durable results store, backed by a SQLite file at a
// fixed local path. Appends are atomic inserts; readers never observe a
// partially written record.
type Client struct {
	db   *sql.DB
	path string
}

// NewClient opens (creating if needed) the store at path.
func NewClient(ctx context.Context, path string) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool to a single
	// connection so writes serialize instead of returning SQLITE_BUSY.
	database.SetMaxOpenConns(1)
	database.SetMaxIdleConns(1)
	database.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := database.ExecContext(ctx, pragma); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := database.ExecContext(ctx, schema); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Client{db: database, path: path}, nil
}

// Path returns the store's location on disk.
func (c *Client) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Close closes the underlying database.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Client) ready() error {
	if c == nil || c.db == nil {
		return ErrNotConnected
	}
	return nil
}

func marshalOptional(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
