package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

func TestNewEventEnvelope(t *testing.T) {
	payload := DetectionCompletedPayload{
		RunID:         "run-1",
		CandidateName: "Altana",
		ConflictCount: 3,
		HighestRisk:   "high",
		CompletedAt:   time.Now().UTC(),
	}

	env, err := NewEventEnvelope("detection.completed", "apiserver", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "detection.completed", env.EventType)
	assert.Equal(t, "apiserver", env.Source)
	assert.Equal(t, "v1", env.SchemaVersion)
	assert.False(t, env.Timestamp.IsZero())

	var decoded DetectionCompletedPayload
	require.NoError(t, env.DecodePayload(&decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, 3, decoded.ConflictCount)
}

func TestEnvelopeEncodeDecodeRoundTrip(t *testing.T) {
	env, err := NewEventEnvelope("detection.high_risk", "apiserver", HighRiskConflictPayload{
		RunID:      "run-2",
		RegistryID: "tm-42",
		RiskLevel:  "high",
	})
	require.NoError(t, err)

	data, err := env.Encode()
	require.NoError(t, err)

	back, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, env.EventID, back.EventID)

	var p HighRiskConflictPayload
	require.NoError(t, back.DecodePayload(&p))
	assert.Equal(t, "tm-42", p.RegistryID)
}

func TestDecodePayloadEmpty(t *testing.T) {
	env := &EventEnvelope{}
	var p DetectionCompletedPayload
	assert.Error(t, env.DecodePayload(&p))
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte("{not json"))
	assert.Error(t, err)
}

func TestHighestRisk(t *testing.T) {
	mk := func(levels ...trademark.RiskLevel) []trademark.ScoredConflict {
		out := make([]trademark.ScoredConflict, len(levels))
		for i, l := range levels {
			out[i].RiskLevel = l
		}
		return out
	}

	assert.Equal(t, trademark.RiskLow, HighestRisk(nil))
	assert.Equal(t, trademark.RiskLow, HighestRisk(mk(trademark.RiskLow)))
	assert.Equal(t, trademark.RiskMedium, HighestRisk(mk(trademark.RiskLow, trademark.RiskMedium)))
	assert.Equal(t, trademark.RiskHigh, HighestRisk(mk(trademark.RiskMedium, trademark.RiskHigh, trademark.RiskLow)))
}
