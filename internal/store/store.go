package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Load when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Store is the persistence transport for learner state. Values are opaque
// bytes addressed by string keys. Writes are last-write-wins; there is no
// transactionality across keys.
type Store interface {
	// Load returns the value stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Close releases the underlying connection.
	Close() error
}

// DefaultDBPath resolves the database file path in priority order:
// 1. MONARCH_DB environment variable
// 2. $XDG_DATA_HOME/monarch/monarch.db
// 3. ~/.local/share/monarch/monarch.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MONARCH_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "monarch", "monarch.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
