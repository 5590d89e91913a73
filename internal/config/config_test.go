package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "default", cfg.User)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Content.Path)
	assert.Equal(t, time.Sunday, cfg.FirstWeekday())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monarch.yaml")
	yaml := `
store:
  backend: redis
  redis:
    addr: cache:6379
    db: 2
user: ada
calendar:
  first_weekday: 2
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("MONARCH_USER", "grace")
	t.Setenv("MONARCH_LOG_LEVEL", "debug")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "grace", cfg.User, "env overrides file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Monday, cfg.FirstWeekday())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"ok", Config{Store: StoreConfig{Backend: "memory"}, Calendar: CalendarConfig{FirstWeekday: 7}}, true},
		{"bad backend", Config{Store: StoreConfig{Backend: "postgres"}, Calendar: CalendarConfig{FirstWeekday: 1}}, false},
		{"weekday zero", Config{Store: StoreConfig{Backend: "sqlite"}}, false},
		{"weekday eight", Config{Store: StoreConfig{Backend: "sqlite"}, Calendar: CalendarConfig{FirstWeekday: 8}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
