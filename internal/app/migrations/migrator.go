package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/logger"
)

// Migrator applies SQL migration files and records them in the
// schema_migrations table so each file runs exactly once.
type Migrator struct {
	db *pgxpool.Pool
}

// NewMigrator creates a new Migrator
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{db: db}
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`

	if _, err := m.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("error creating schema_migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`

	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking migration status: %w", err)
	}
	return exists, nil
}

// MigrateFromFile applies a single migration file. The version is the
// filename prefix before the first underscore, e.g. 000001_init.sql.
func (m *Migrator) MigrateFromFile(ctx context.Context, path string) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	filename := filepath.Base(path)
	version := strings.Split(filename, "_")[0]
	if version == "" || version == filename {
		return fmt.Errorf("migration file %q has no version prefix", filename)
	}

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		logger.Debug().Str("version", version).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading migration file %s: %w", filename, err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting migration transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("error executing migration %s: %w", filename, err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("error recording migration %s: %w", filename, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing migration %s: %w", filename, err)
	}

	logger.Info().Str("version", version).Str("file", filename).Msg("Migration applied")
	return nil
}

// MigrateFromDirectory applies every *.sql file in the directory in
// lexical order.
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading migrations directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, file := range files {
		if err := m.MigrateFromFile(ctx, filepath.Join(dir, file)); err != nil {
			return err
		}
	}
	return nil
}
