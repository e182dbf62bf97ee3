package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"obsdemo/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_work_runs",
		SQL: `CREATE TABLE IF NOT EXISTS work_runs (
  id              UUID             PRIMARY KEY,
  cpu_ms          INTEGER          NOT NULL CHECK (cpu_ms >= 0),
  mem_mb          INTEGER          NOT NULL CHECK (mem_mb >= 0),
  elapsed_seconds DOUBLE PRECISION NOT NULL,
  iterations      BIGINT           NOT NULL,
  created_at      TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_work_runs_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_work_runs_created_at ON work_runs (created_at);`,
	},
}

// EnsureMigrated checks whether the work_runs table exists and runs the
// migration steps if it does not.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	start := time.Now()

	log.Info(ctx, "db_migration_check", map[string]any{
		"component": "database",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.work_runs') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error(ctx, "db_migration_failed", err, map[string]any{
			"component":   "database",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info(ctx, "db_migration_skip", map[string]any{
			"component":   "database",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error(ctx, "db_migration_failed", err, map[string]any{
				"component":      "database",
				"migration_step": step.Name,
				"db_host":        dbHost,
				"duration_ms":    time.Since(start).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info(ctx, "db_migration_step", map[string]any{
			"component":        "database",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Info(ctx, "db_migration_success", map[string]any{
		"component":   "database",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
