package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Dialect selects the DDL flavour.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

type migrationStep struct {
	Name string
	SQL  string
}

var postgresSteps = []migrationStep{
	{
		Name: "create_table_sprueche",
		SQL: `CREATE TABLE IF NOT EXISTS sprueche (
  id         BIGSERIAL    PRIMARY KEY,
  text       TEXT         NOT NULL CHECK (char_length(text) BETWEEN 1 AND 500),
  autor      VARCHAR(255) NOT NULL CHECK (char_length(autor) BETWEEN 1 AND 100),
  created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_sprueche_autor",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sprueche_autor ON sprueche (autor);`,
	},
	{
		Name: "create_index_sprueche_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sprueche_created_at ON sprueche (created_at);`,
	},
}

// AUTOINCREMENT keeps deleted ids from being handed out again.
var sqliteSteps = []migrationStep{
	{
		Name: "create_table_sprueche",
		SQL: `CREATE TABLE IF NOT EXISTS sprueche (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  text       TEXT    NOT NULL,
  autor      TEXT    NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);`,
	},
	{
		Name: "create_index_sprueche_autor",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sprueche_autor ON sprueche (autor);`,
	},
	{
		Name: "create_index_sprueche_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_sprueche_created_at ON sprueche (created_at);`,
	},
}

func plan(d Dialect) (sentinel string, steps []migrationStep, err error) {
	switch d {
	case Postgres:
		return "SELECT to_regclass('public.sprueche') IS NOT NULL", postgresSteps, nil
	case SQLite:
		return "SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'table' AND name = 'sprueche'", sqliteSteps, nil
	default:
		return "", nil, fmt.Errorf("unsupported dialect %q", d)
	}
}

// EnsureMigrated checks if the 'sprueche' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, d Dialect, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(
		slog.String("component", "database"),
		slog.String("dialect", string(d)),
		slog.String("db_host", dbHost),
	)

	sentinel, steps, err := plan(d)
	if err != nil {
		return err
	}

	log.Info("db_migration_check", slog.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, sentinel).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			slog.String("status", "error"),
			slog.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			slog.String("status", "success"),
			slog.String("reason", "schema already exists, skipping migration"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", slog.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				slog.String("status", "error"),
				slog.String("migration_step", step.Name),
				slog.String("error_message", err.Error()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			slog.String("status", "success"),
			slog.String("migration_step", step.Name),
			slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		slog.String("status", "success"),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
