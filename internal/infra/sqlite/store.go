// Package sqlite keeps level catalogs in a local SQLite file, for running
// the game with editable content but without a Postgres server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"sdlc-quest/internal/domain"
)

const createLevelsTable = `
CREATE TABLE IF NOT EXISTS levels (
	number     INTEGER PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// Store reads and writes level catalogs in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Init creates the levels table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createLevelsTable); err != nil {
		return fmt.Errorf("create levels table: %w", err)
	}
	return nil
}

// Save upserts the given levels in one transaction.
func (s *Store) Save(ctx context.Context, levels []domain.Level) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, level := range levels {
		if err := level.Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(level)
		if err != nil {
			return fmt.Errorf("marshal level %d: %w", level.Number, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO levels (number, title, data, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(number) DO UPDATE SET title=excluded.title, data=excluded.data, updated_at=CURRENT_TIMESTAMP`,
			level.Number, level.Title, string(data))
		if err != nil {
			return fmt.Errorf("save level %d: %w", level.Number, err)
		}
	}
	return tx.Commit()
}

func (s *Store) LoadLevel(ctx context.Context, number int) (domain.Level, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM levels WHERE number = ?`, number).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Level{}, fmt.Errorf("level %d: %w", number, domain.ErrLevelNotFound)
	}
	if err != nil {
		return domain.Level{}, fmt.Errorf("load level: %w", err)
	}
	var level domain.Level
	if err := json.Unmarshal([]byte(raw), &level); err != nil {
		return domain.Level{}, fmt.Errorf("unmarshal level: %w", err)
	}
	level.Number = number
	return level, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
