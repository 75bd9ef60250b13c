package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/repository/sqlite"
)

// Storage is an opened repository backend.
type Storage struct {
	Repos   repository.Repositories
	migrate func(ctx context.Context, command string) error
	close   func()
}

// OpenStorage connects the backend named by cfg.Storage.Driver.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Storage{
			Repos: repository.NewPostgresRepositories(pg.Pool),
			migrate: func(ctx context.Context, command string) error {
				return persistence.Migrate(ctx, pg.Pool, logger, command)
			},
			close: pg.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.SQLite.Path))
		return &Storage{
			Repos: sqlite.NewRepositories(db),
			migrate: func(ctx context.Context, command string) error {
				return sqlite.Migrate(ctx, db, command)
			},
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}

// Migrate runs a migration command (up, down, status).
func (s *Storage) Migrate(ctx context.Context, command string) error {
	return s.migrate(ctx, command)
}

// Close releases the backend.
func (s *Storage) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}
