package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

func newRanker(t *testing.T) *Ranker {
	t.Helper()
	r, err := NewRanker(DefaultInclusionThreshold, DefaultReportLimit)
	require.NoError(t, err)
	return r
}

func hit(id, name string, accuracy int) trademark.AggregatedHit {
	return trademark.AggregatedHit{
		RawRegistryHit: trademark.RawRegistryHit{
			RegistryID: id,
			Name:       name,
			Status:     trademark.StatusActive,
			Accuracy:   accuracy,
		},
	}
}

func TestNewRankerRejectsBadPolicy(t *testing.T) {
	_, err := NewRanker(-1, 20)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeThresholdInvalid))

	_, err = NewRanker(101, 20)
	assert.Error(t, err)

	_, err = NewRanker(50, 0)
	assert.Error(t, err)
}

func TestRankIncludesExactMatch(t *testing.T) {
	conflicts := newRanker(t).Rank("Altana", []trademark.AggregatedHit{
		hit("tm-1", "ALTANA Pharma GmbH", 90),
	})

	require.Len(t, conflicts, 1)
	assert.Equal(t, 100, conflicts[0].CombinedScore)
	assert.True(t, conflicts[0].CoreWordMatch)
	assert.Equal(t, trademark.RiskHigh, conflicts[0].RiskLevel)
}

func TestRankIncludesCoreWordMatchBelowThreshold(t *testing.T) {
	// One edit on the core word keeps the hit in regardless of the score.
	conflicts := newRanker(t).Rank("Altana", []trademark.AggregatedHit{
		hit("tm-2", "Altena Software", 60),
	})

	require.Len(t, conflicts, 1)
	assert.True(t, conflicts[0].CoreWordMatch)
}

func TestRankExcludesUnrelatedHit(t *testing.T) {
	conflicts := newRanker(t).Rank("Altana", []trademark.AggregatedHit{
		hit("tm-3", "Zephyr Industries", 40),
	})
	assert.Empty(t, conflicts)
}

func TestRankFalsePositiveGuard(t *testing.T) {
	// Single-letter core words are one edit apart, so the hit passes the
	// inclusion rule with a combined score of zero.  The provider is highly
	// confident, the engine is not: the guard drops it.
	dropped := newRanker(t).Rank("X", []trademark.AggregatedHit{
		hit("tm-4", "Y", 95),
	})
	assert.Empty(t, dropped)

	// Same pair with modest provider accuracy survives the guard.
	kept := newRanker(t).Rank("X", []trademark.AggregatedHit{
		hit("tm-4", "Y", 70),
	})
	assert.Len(t, kept, 1)
}

func TestRankSortsByScoreAccuracyThenID(t *testing.T) {
	conflicts := newRanker(t).Rank("Altana", []trademark.AggregatedHit{
		hit("tm-b", "Altana", 80),
		hit("tm-c", "ALTANA", 90),
		hit("tm-a", "altana", 90),
		hit("tm-d", "Altena Software", 75),
	})

	require.Len(t, conflicts, 4)
	// Exact matches first, accuracy 90 before 80, id ascending within ties.
	assert.Equal(t, "tm-a", conflicts[0].RegistryID)
	assert.Equal(t, "tm-c", conflicts[1].RegistryID)
	assert.Equal(t, "tm-b", conflicts[2].RegistryID)
	assert.Equal(t, "tm-d", conflicts[3].RegistryID)
}

func TestRankTruncatesToReportLimit(t *testing.T) {
	r, err := NewRanker(50, 2)
	require.NoError(t, err)

	conflicts := r.Rank("Altana", []trademark.AggregatedHit{
		hit("tm-1", "Altana", 90),
		hit("tm-2", "Altana", 85),
		hit("tm-3", "Altana", 80),
	})
	require.Len(t, conflicts, 2)
	assert.Equal(t, "tm-1", conflicts[0].RegistryID)
	assert.Equal(t, "tm-2", conflicts[1].RegistryID)
}

func TestRankEmptyInput(t *testing.T) {
	assert.Empty(t, newRanker(t).Rank("Altana", nil))
}

func TestRankRiskBuckets(t *testing.T) {
	conflicts := newRanker(t).Rank("Altana", []trademark.AggregatedHit{
		hit("tm-1", "Altana", 90),
	})
	require.Len(t, conflicts, 1)
	assert.Equal(t, trademark.RiskLevelForScore(conflicts[0].CombinedScore), conflicts[0].RiskLevel)
}
