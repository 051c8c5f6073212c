package repositories

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// fakeExecutor records executed statements and serves canned result rows.
type fakeExecutor struct {
	execs    []execCall
	execErr  error
	queryErr error
	rows     [][]any
	rowsTag  pgconn.CommandTag
}

type execCall struct {
	sql  string
	args []any
}

func (f *fakeExecutor) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return f.rowsTag, nil
}

func (f *fakeExecutor) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{rows: f.rows}, nil
}

func (f *fakeExecutor) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	if f.queryErr != nil {
		return fakeRow{err: f.queryErr}
	}
	if len(f.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{values: f.rows[0]}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assignValues(r.values, dest)
}

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assignValues(r.rows[r.pos-1], dest)
}

func assignValues(src []any, dest []any) error {
	for i, d := range dest {
		if i >= len(src) || src[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(src[i]))
	}
	return nil
}

func auditRow(runID uuid.UUID, created time.Time) []any {
	return []any{
		runID, "Novatek", []string{"DE", "FR"}, []int{9, 42},
		14, 37, 5, "high", int64(2140),
		[]byte(`[{"registry_id":"tm-1","name":"NOVATEC","combined_score":91,"risk_level":"high","matched_terms":["novatek"]}]`),
		[]byte(`[{"country":"SM","message":"no searchable national register"}]`),
		created,
	}
}

func TestAuditRepoInsert(t *testing.T) {
	db := &fakeExecutor{rowsTag: pgconn.NewCommandTag("INSERT 0 1")}
	repo := NewDetectionAuditRepo(db, nil)

	runID := uuid.New()
	rec := &AuditRecord{
		RunID:         runID,
		CandidateName: "Novatek",
		Countries:     []string{"DE", "FR"},
		NiceClasses:   []int{9, 42},
		VariantCount:  14,
		HitCount:      37,
		ConflictCount: 1,
		HighestRisk:   trademark.RiskHigh,
		DurationMS:    2140,
		Conflicts: []trademark.ScoredConflict{{
			AggregatedHit: trademark.AggregatedHit{
				RawRegistryHit: trademark.RawRegistryHit{RegistryID: "tm-1", Name: "NOVATEC"},
				MatchedTerms:   []string{"novatek"},
			},
			CombinedScore: 91,
			RiskLevel:     trademark.RiskHigh,
		}},
	}

	require.NoError(t, repo.Insert(context.Background(), rec))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].sql, "INSERT INTO detection_audit")
	assert.Equal(t, runID, db.execs[0].args[0])
	assert.Equal(t, "Novatek", db.execs[0].args[1])
	assert.False(t, rec.CreatedAt.IsZero(), "Insert should stamp CreatedAt")
}

func TestAuditRepoInsertRequiresRunID(t *testing.T) {
	repo := NewDetectionAuditRepo(&fakeExecutor{}, nil)

	err := repo.Insert(context.Background(), &AuditRecord{CandidateName: "Novatek"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestAuditRepoInsertEmptyConflictsStoredAsNull(t *testing.T) {
	db := &fakeExecutor{}
	repo := NewDetectionAuditRepo(db, nil)

	rec := &AuditRecord{RunID: uuid.New(), CandidateName: "Novatek"}
	require.NoError(t, repo.Insert(context.Background(), rec))

	// conflicts and warnings are placeholders $10 and $11
	assert.Nil(t, db.execs[0].args[9])
	assert.Nil(t, db.execs[0].args[10])
}

func TestAuditRepoGetByRunID(t *testing.T) {
	runID := uuid.New()
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	db := &fakeExecutor{rows: [][]any{auditRow(runID, created)}}
	repo := NewDetectionAuditRepo(db, nil)

	rec, err := repo.GetByRunID(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, runID, rec.RunID)
	assert.Equal(t, "Novatek", rec.CandidateName)
	assert.Equal(t, []string{"DE", "FR"}, rec.Countries)
	assert.Equal(t, trademark.RiskHigh, rec.HighestRisk)
	require.Len(t, rec.Conflicts, 1)
	assert.Equal(t, "tm-1", rec.Conflicts[0].RegistryID)
	assert.Equal(t, 91, rec.Conflicts[0].CombinedScore)
	require.Len(t, rec.Warnings, 1)
	assert.Equal(t, "SM", rec.Warnings[0].Country)
	assert.Equal(t, created, rec.CreatedAt)
}

func TestAuditRepoGetByRunIDNotFound(t *testing.T) {
	repo := NewDetectionAuditRepo(&fakeExecutor{}, nil)

	_, err := repo.GetByRunID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAuditRepoListRecent(t *testing.T) {
	created := time.Now().UTC()
	db := &fakeExecutor{rows: [][]any{
		auditRow(uuid.New(), created),
		auditRow(uuid.New(), created.Add(-time.Hour)),
	}}
	repo := NewDetectionAuditRepo(db, nil)

	records, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Contains(t, db.execs[0].sql, "ORDER BY created_at DESC")
	assert.Equal(t, []any{10}, db.execs[0].args)
}

func TestAuditRepoListRecentDefaultsLimit(t *testing.T) {
	db := &fakeExecutor{}
	repo := NewDetectionAuditRepo(db, nil)

	_, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []any{20}, db.execs[0].args)
}

func TestAuditRepoPurgeOlderThan(t *testing.T) {
	db := &fakeExecutor{rowsTag: pgconn.NewCommandTag("DELETE 3")}
	repo := NewDetectionAuditRepo(db, nil)

	cutoff := time.Now().AddDate(0, -6, 0)
	purged, err := repo.PurgeOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)
	assert.True(t, strings.HasPrefix(db.execs[0].sql, "DELETE FROM detection_audit"))
	assert.Equal(t, cutoff, db.execs[0].args[0])
}

func TestAuditRepoQueryFailureWrapped(t *testing.T) {
	db := &fakeExecutor{queryErr: assert.AnError}
	repo := NewDetectionAuditRepo(db, nil)

	_, err := repo.ListRecent(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
}
