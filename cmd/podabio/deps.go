package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/podabio/podabio/internal/seed"
	"github.com/podabio/podabio/internal/store"
	"github.com/podabio/podabio/internal/theme"
)

// themeDeps is the storage side of the composition root, shared by
// every subcommand that touches the database.
type themeDeps struct {
	db      *store.SQLiteStore
	store   *theme.Store
	service *theme.Service
	closers []func() error
}

func (d *themeDeps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}
}

// openThemes opens the database, applies migrations, optionally seeds
// the system themes and builds the theme service with its cache.
func openThemes(ctx context.Context, seedSystem bool) (*themeDeps, error) {
	if app.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(app.Database.Path), 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := store.New(app.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	deps := &themeDeps{db: db, closers: []func() error{db.Close}}

	if err := db.Migrate(ctx, theme.ModuleName, theme.Migrations()); err != nil {
		deps.Close()
		return nil, fmt.Errorf("migrate %s: %w", theme.ModuleName, err)
	}
	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", app.Database.Path),
	)

	deps.store = theme.NewStore(db.DB())
	if seedSystem {
		n, err := seed.SeedSystemThemes(ctx, deps.store)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("seed system themes: %w", err)
		}
		if n > 0 {
			logger.Info("system themes seeded", zap.String("component", "seed"), zap.Int("count", n))
		}
	}

	cache, err := newCache(ctx, deps)
	if err != nil {
		deps.Close()
		return nil, err
	}

	deps.service = theme.NewService(deps.store,
		theme.WithCache(cache),
		theme.WithLogger(logger.Named("theme")),
		theme.WithMaxThemesPerUser(app.Themes.MaxPerUser),
	)
	return deps, nil
}

func newCache(ctx context.Context, deps *themeDeps) (theme.Cache, error) {
	switch app.Cache.Backend {
	case "redis":
		rc, err := theme.NewRedisCache(ctx, app.Cache.RedisURL, app.Cache.Prefix, logger.Named("cache"))
		if err != nil {
			return nil, fmt.Errorf("connect theme cache: %w", err)
		}
		deps.closers = append(deps.closers, rc.Close)
		logger.Info("theme cache initialized", zap.String("component", "cache"), zap.String("backend", "redis"))
		return rc, nil
	default:
		return theme.NewMemoryCache(), nil
	}
}
