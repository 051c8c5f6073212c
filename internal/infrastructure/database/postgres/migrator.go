package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
)

// Executor is the subset of pgxpool.Pool the migrator and repositories use.
// Tests substitute a fake.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// migration is one schema step.  Versions are applied in order and recorded
// in schema_migrations; a step never changes after it has shipped.
type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create_detection_audit",
		sql: `
CREATE TABLE IF NOT EXISTS detection_audit (
	run_id         UUID PRIMARY KEY,
	candidate_name TEXT NOT NULL,
	countries      TEXT[] NOT NULL DEFAULT '{}',
	nice_classes   INT[] NOT NULL DEFAULT '{}',
	variant_count  INT NOT NULL DEFAULT 0,
	hit_count      INT NOT NULL DEFAULT 0,
	conflict_count INT NOT NULL DEFAULT 0,
	highest_risk   TEXT NOT NULL DEFAULT 'low',
	duration_ms    BIGINT NOT NULL DEFAULT 0,
	conflicts      JSONB,
	warnings       JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
	{
		version: 2,
		name:    "index_detection_audit_created_at",
		sql: `
CREATE INDEX IF NOT EXISTS idx_detection_audit_created_at
	ON detection_audit (created_at DESC)`,
	},
	{
		version: 3,
		name:    "index_detection_audit_candidate",
		sql: `
CREATE INDEX IF NOT EXISTS idx_detection_audit_candidate
	ON detection_audit (lower(candidate_name))`,
	},
}

// Migrate applies all pending schema steps.  It is safe to run on every
// startup.
func Migrate(ctx context.Context, db Executor, log logging.Logger) error {
	if log == nil {
		log = logging.NewNopLogger()
	}

	_, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INT PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create schema_migrations")
	}

	var current int
	row := db.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&current); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read schema version")
	}

	applied := 0
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := db.Exec(ctx, m.sql); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError,
				fmt.Sprintf("migration %d (%s) failed", m.version, m.name))
		}
		if _, err := db.Exec(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
			m.version, m.name); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError,
				fmt.Sprintf("failed to record migration %d", m.version))
		}
		applied++
		log.Info("applied migration",
			logging.Int("version", m.version),
			logging.String("name", m.name))
	}

	if applied == 0 {
		log.Debug("schema up to date", logging.Int("version", current))
	}
	return nil
}
