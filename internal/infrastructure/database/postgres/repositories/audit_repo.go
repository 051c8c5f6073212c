// Package repositories holds the persistence adapters for the optional
// Postgres audit store.  The engine works without it; when configured, every
// completed detection run is recorded for later review.
package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/postgres"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// AuditRecord is one persisted detection run.
type AuditRecord struct {
	RunID         uuid.UUID                  `json:"run_id"`
	CandidateName string                     `json:"candidate_name"`
	Countries     []string                   `json:"countries"`
	NiceClasses   []int                      `json:"nice_classes"`
	VariantCount  int                        `json:"variant_count"`
	HitCount      int                        `json:"hit_count"`
	ConflictCount int                        `json:"conflict_count"`
	HighestRisk   trademark.RiskLevel        `json:"highest_risk"`
	DurationMS    int64                      `json:"duration_ms"`
	Conflicts     []trademark.ScoredConflict `json:"conflicts,omitempty"`
	Warnings      []trademark.CoverageWarning `json:"warnings,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
}

// DetectionAuditRepository persists and queries detection run records.
type DetectionAuditRepository interface {
	Insert(ctx context.Context, rec *AuditRecord) error
	GetByRunID(ctx context.Context, runID uuid.UUID) (*AuditRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*AuditRecord, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgxAuditRepo struct {
	db  postgres.Executor
	log logging.Logger
}

// NewDetectionAuditRepo returns a repository backed by the given executor,
// normally a *pgxpool.Pool.
func NewDetectionAuditRepo(db postgres.Executor, log logging.Logger) DetectionAuditRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &pgxAuditRepo{db: db, log: log.Named("audit-repo")}
}

const auditColumns = `run_id, candidate_name, countries, nice_classes,
	variant_count, hit_count, conflict_count, highest_risk, duration_ms,
	conflicts, warnings, created_at`

func (r *pgxAuditRepo) Insert(ctx context.Context, rec *AuditRecord) error {
	if rec.RunID == uuid.Nil {
		return errors.New(errors.ErrCodeBadRequest, "audit record requires a run id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	conflicts, err := marshalNullable(rec.Conflicts)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode conflicts")
	}
	warnings, err := marshalNullable(rec.Warnings)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode warnings")
	}

	query := `
		INSERT INTO detection_audit (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.Exec(ctx, query,
		rec.RunID, rec.CandidateName, rec.Countries, rec.NiceClasses,
		rec.VariantCount, rec.HitCount, rec.ConflictCount, string(rec.HighestRisk),
		rec.DurationMS, conflicts, warnings, rec.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert audit record")
	}

	r.log.Debug("audit record stored",
		logging.String("run_id", rec.RunID.String()),
		logging.Int("conflicts", rec.ConflictCount))
	return nil
}

func (r *pgxAuditRepo) GetByRunID(ctx context.Context, runID uuid.UUID) (*AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM detection_audit WHERE run_id = $1`

	rec, err := scanAuditRecord(r.db.QueryRow(ctx, query, runID))
	if err != nil {
		if isNoRows(err) {
			return nil, errors.NotFound("detection run not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load audit record")
	}
	return rec, nil
}

func (r *pgxAuditRepo) ListRecent(ctx context.Context, limit int) ([]*AuditRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + auditColumns + `
		FROM detection_audit ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list audit records")
	}
	defer rows.Close()

	records := make([]*AuditRecord, 0, limit)
	for rows.Next() {
		rec, err := scanAuditRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan audit record")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "audit record iteration failed")
	}
	return records, nil
}

func (r *pgxAuditRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM detection_audit WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to purge audit records")
	}
	purged := tag.RowsAffected()
	if purged > 0 {
		r.log.Info("purged audit records",
			logging.Int("count", int(purged)),
			logging.String("cutoff", cutoff.UTC().Format(time.RFC3339)))
	}
	return purged, nil
}

// rowScanner matches both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuditRecord(row rowScanner) (*AuditRecord, error) {
	var (
		rec       AuditRecord
		risk      string
		conflicts []byte
		warnings  []byte
	)
	err := row.Scan(
		&rec.RunID, &rec.CandidateName, &rec.Countries, &rec.NiceClasses,
		&rec.VariantCount, &rec.HitCount, &rec.ConflictCount, &risk,
		&rec.DurationMS, &conflicts, &warnings, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.HighestRisk = trademark.RiskLevel(risk)
	if len(conflicts) > 0 {
		if err := json.Unmarshal(conflicts, &rec.Conflicts); err != nil {
			return nil, err
		}
	}
	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &rec.Warnings); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

func marshalNullable(v any) ([]byte, error) {
	switch vv := v.(type) {
	case []trademark.ScoredConflict:
		if len(vv) == 0 {
			return nil, nil
		}
	case []trademark.CoverageWarning:
		if len(vv) == 0 {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func isNoRows(err error) bool {
	return stderrors.Is(err, pgx.ErrNoRows)
}
