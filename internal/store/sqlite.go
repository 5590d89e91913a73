package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const kvTable = "kv"

// SQLite is a Store backed by a single key-value table in a SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the SQLite database at dsn, applies recommended pragmas
// and creates the key-value table if needed.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One writer; the key-value table never benefits from more.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		name TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("name", key)).
		Query()

	var value []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLite) Save(ctx context.Context, key string, value []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(kvTable).
		Columns("name", "value", "updated_at").
		Values(key, value, time.Now().UTC().Unix()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]any, len(keys))
	for i, k := range keys {
		names[i] = k
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Delete(kvTable).
		Where(entsql.In("name", names...)).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
