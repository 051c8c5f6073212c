// Package conflict turns aggregated registry hits into the final ranked
// conflict list: every hit is scored against the candidate, the inclusion
// policy and false-positive guard are applied, and the survivors are sorted
// and truncated to the reporting limit.
package conflict

import (
	"sort"

	"github.com/accelari/trademarkiq2-sub002/internal/domain/similarity"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// Defaults of the ranking policy.
const (
	DefaultInclusionThreshold = 50
	DefaultReportLimit        = 20
)

// The false-positive guard drops hits the provider is confident about but
// the engine is not: the provider's looser matching surfaces names that
// merely share a substring.
const (
	guardProviderAccuracy = 85
	guardCombinedCeiling  = 30
)

// Ranker applies the inclusion policy.  Construct it once; it is stateless
// and safe for concurrent use.
type Ranker struct {
	inclusionThreshold int
	reportLimit        int
}

// NewRanker validates the policy knobs at construction.  A threshold outside
// 0–100 or a non-positive limit is a configuration defect, not a per-call
// condition.
func NewRanker(inclusionThreshold, reportLimit int) (*Ranker, error) {
	if inclusionThreshold < 0 || inclusionThreshold > 100 {
		return nil, errors.Newf(errors.ErrCodeThresholdInvalid,
			"inclusion threshold %d is out of range [0, 100]", inclusionThreshold)
	}
	if reportLimit < 1 {
		return nil, errors.Newf(errors.ErrCodeThresholdInvalid,
			"report limit %d must be >= 1", reportLimit)
	}
	return &Ranker{
		inclusionThreshold: inclusionThreshold,
		reportLimit:        reportLimit,
	}, nil
}

// Rank scores every aggregated hit against the candidate name and returns
// the included conflicts, sorted descending by combined score with ties
// broken by provider accuracy and then registry id for determinism.
func (r *Ranker) Rank(candidateName string, hits []trademark.AggregatedHit) []trademark.ScoredConflict {
	conflicts := make([]trademark.ScoredConflict, 0, len(hits))

	for _, hit := range hits {
		verdict := similarity.Score(candidateName, hit.Name)

		if !r.include(verdict) {
			continue
		}
		if guardsAgainstFalsePositive(hit.Accuracy, verdict) {
			continue
		}

		conflicts = append(conflicts, trademark.ScoredConflict{
			AggregatedHit: hit,
			PhoneticScore: verdict.Phonetic,
			VisualScore:   verdict.Visual,
			CombinedScore: verdict.Combined,
			CoreWordMatch: verdict.CoreWordMatch,
			Explanation:   verdict.Explanation,
			RiskLevel:     trademark.RiskLevelForScore(verdict.Combined),
			FamousMark:    IsFamousMark(hit.Name),
		})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].CombinedScore != conflicts[j].CombinedScore {
			return conflicts[i].CombinedScore > conflicts[j].CombinedScore
		}
		if conflicts[i].Accuracy != conflicts[j].Accuracy {
			return conflicts[i].Accuracy > conflicts[j].Accuracy
		}
		return conflicts[i].RegistryID < conflicts[j].RegistryID
	})

	if len(conflicts) > r.reportLimit {
		conflicts = conflicts[:r.reportLimit]
	}
	return conflicts
}

// include keeps a hit when its combined score clears the threshold or the
// core words match.  Core word matches bypass the threshold because real
// conflicts can score low on edit distance yet share the legally salient
// root word.
func (r *Ranker) include(verdict similarity.Result) bool {
	return verdict.Combined >= r.inclusionThreshold || verdict.CoreWordMatch
}

func guardsAgainstFalsePositive(providerAccuracy int, verdict similarity.Result) bool {
	return providerAccuracy >= guardProviderAccuracy && verdict.Combined < guardCombinedCeiling
}
