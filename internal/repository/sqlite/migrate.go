package sqlite

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/spec-kit/support-desk/internal/persistence"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded schema.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	return Migrate(ctx, db, persistence.MigrateUp)
}

// Migrate runs a goose command (up, down, status) against db.
func Migrate(ctx context.Context, db *gorm.DB, command string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)

	switch command {
	case persistence.MigrateUp:
		err = goose.UpContext(ctx, sqlDB, "migrations")
	case persistence.MigrateDown:
		err = goose.DownContext(ctx, sqlDB, "migrations")
	case persistence.MigrateStatus:
		err = goose.StatusContext(ctx, sqlDB, "migrations")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
