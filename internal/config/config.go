// Package config loads monarch settings from an optional YAML file and
// MONARCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	User     string         `mapstructure:"user"`
	Content  ContentConfig  `mapstructure:"content"`
	Log      LogConfig      `mapstructure:"log"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	Path    string      `mapstructure:"path"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ContentConfig struct {
	// Path to a catalog JSON file. Empty uses the bundled content.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File enables a rotating JSON log in addition to the console.
	File string `mapstructure:"file"`
}

type CalendarConfig struct {
	// FirstWeekday is 1=Sunday through 7=Saturday.
	FirstWeekday int `mapstructure:"first_weekday"`
}

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.path", "")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("user", "default")
	v.SetDefault("content.path", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("calendar.first_weekday", 1)
}

// New returns a viper instance with defaults and env binding but no file.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MONARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration into v. When path is empty it looks for
// monarch.yaml in the user config dir and the working directory, and a
// missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("monarch")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "monarch"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated and ranged values.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("config: store.backend %q must be sqlite, redis or memory", c.Store.Backend)
	}
	if c.Calendar.FirstWeekday < 1 || c.Calendar.FirstWeekday > 7 {
		return fmt.Errorf("config: calendar.first_weekday %d must be 1 (Sunday) through 7 (Saturday)", c.Calendar.FirstWeekday)
	}
	return nil
}

// FirstWeekday converts the configured ordinal to a time.Weekday.
func (c *Config) FirstWeekday() time.Weekday {
	return time.Weekday(c.Calendar.FirstWeekday - 1)
}
