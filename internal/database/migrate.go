package database

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

// Migrate applies the embedded .up.sql files in name order, recording each
// applied version in schema_migrations.
func Migrate(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	files, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	var upMigrations []string

	for _, file := range files {
		name := file.Name()

		if strings.HasSuffix(name, ".up.sql") {
			upMigrations = append(upMigrations, name)
		}
	}

	sort.Strings(upMigrations)

	query := "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)"

	for _, migration := range upMigrations {
		var exists bool

		err := pool.QueryRow(ctx, query, migration).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migrations %s: %w", migration, err)
		}

		if exists {
			continue
		}

		sqlBytes, err := migrationFiles.ReadFile("migrations/" + migration)
		if err != nil {
			return fmt.Errorf("failed to read sql file %s: %w", migration, err)
		}

		_, err = pool.Exec(ctx, string(sqlBytes))
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration, err)
		}

		_, err = pool.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)",
			migration,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration, err)
		}
	}

	return nil
}
