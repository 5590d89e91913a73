// Package app wires configuration, logging, storage, the content catalog
// and the progress store together for the CLI.
package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/abhisek/monarch/internal/catalog"
	"github.com/abhisek/monarch/internal/config"
	"github.com/abhisek/monarch/internal/logger"
	"github.com/abhisek/monarch/internal/practice"
	"github.com/abhisek/monarch/internal/progress"
	"github.com/abhisek/monarch/internal/store"
	"github.com/abhisek/monarch/internal/telemetry"
)

// App holds the long-lived dependencies of one CLI invocation.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Store    store.Store
	Catalog  *catalog.Catalog
	Progress *progress.Service
	Metrics  *telemetry.Collectors
	Registry *prometheus.Registry

	// Now is the clock shared by progress and advice.
	Now func() time.Time

	unsubscribe func()
}

// Options overrides pieces of the default wiring, mostly for tests.
type Options struct {
	Logger *zap.Logger
	Store  store.Store
	Now    func() time.Time
}

// Open builds an App from cfg. The caller must Close it.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := opts.Logger
	ownLog := log == nil
	if ownLog {
		var err error
		log, err = logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
		if err != nil {
			return nil, err
		}
	}
	fail := func(err error) (*App, error) {
		log.Error("app not opened", zap.String("backend", cfg.Store.Backend), zap.Error(err))
		if ownLog {
			_ = log.Sync()
		}
		return nil, err
	}

	kv := opts.Store
	if kv == nil {
		var err error
		kv, err = openStore(ctx, cfg.Store)
		if err != nil {
			return fail(fmt.Errorf("open store: %w", err))
		}
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		Store:    kv,
		Catalog:  catalog.Load(cfg.Content.Path, log),
		Registry: prometheus.NewRegistry(),
		Now:      now,
	}

	a.Progress = progress.NewService(ctx, store.Scoped(kv, cfg.User), progress.Options{
		Now:      now,
		Calendar: progress.Calendar{Location: time.Local, FirstWeekday: cfg.FirstWeekday()},
		Logger:   log.Named("progress"),
	})

	metrics, err := telemetry.New(a.Registry)
	if err != nil {
		kv.Close()
		return fail(fmt.Errorf("register metrics: %w", err))
	}
	a.Metrics = metrics
	a.unsubscribe = metrics.Observe(a.Progress)

	log.Debug("app ready",
		zap.String("backend", cfg.Store.Backend),
		zap.String("user", cfg.User),
		zap.Int("categories", len(a.Catalog.Categories())))
	return a, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendRedis:
		r, err := store.OpenRedis(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		path := cfg.Path
		if path == "" {
			var err error
			if path, err = store.DefaultDBPath(); err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
		} else if err := store.EnsureDir(path); err != nil {
			return nil, err
		}
		db, err := store.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// Composer returns a SessionComposer over the catalog that records into
// the progress store. A nil rng is seeded from the clock.
func (a *App) Composer(rng *rand.Rand) *practice.Composer {
	return practice.NewComposer(a.Catalog.Categories(), a.Progress, rng).
		WithLogger(a.Log.Named("practice"))
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	err := a.Store.Close()
	_ = a.Log.Sync()
	return err
}
