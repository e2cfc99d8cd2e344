package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slot-swapper/core/logger"
	"sort"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every embedded migration in file-name order. Statements are idempotent.
func (d *Database) Migrate(ctx context.Context) error {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, name := range files {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := d.sqlx.ExecContext(ctx, string(body)); err != nil {
			logger.Error("Database:Migrate:Exec", "file", name, "error", err)
			return fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Info("Database:Migrate:Applied", "file", name)
	}
	return nil
}
