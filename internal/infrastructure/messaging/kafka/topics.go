// Package kafka publishes detection lifecycle events and consumes them for
// the audit worker.  Every message on the wire is an EventEnvelope with a
// JSON payload.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

const (
	TopicDetectionCompleted = "detection.completed"
	TopicDetectionHighRisk  = "detection.high_risk"
	TopicDeadLetter         = "dead_letter.detection"
)

// EventEnvelope standardizes event messages across topics.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// DetectionCompletedPayload summarizes one finished detection run.
type DetectionCompletedPayload struct {
	RunID           string    `json:"run_id"`
	CandidateName   string    `json:"candidate_name"`
	Countries       []string  `json:"countries"`
	NiceClasses     []int     `json:"nice_classes"`
	VariantCount    int       `json:"variant_count"`
	HitCount        int       `json:"hit_count"`
	ConflictCount   int       `json:"conflict_count"`
	HighestRisk     string    `json:"highest_risk"`
	DurationMS      int64     `json:"duration_ms"`
	CompletedAt     time.Time `json:"completed_at"`
	CoverageWarning bool      `json:"coverage_warning"`
}

// HighRiskConflictPayload is emitted once per high-risk conflict so alerting
// can react to individual marks, not whole runs.
type HighRiskConflictPayload struct {
	RunID         string    `json:"run_id"`
	CandidateName string    `json:"candidate_name"`
	RegistryID    string    `json:"registry_id"`
	MarkName      string    `json:"mark_name"`
	Office        string    `json:"office"`
	CombinedScore int       `json:"combined_score"`
	RiskLevel     string    `json:"risk_level"`
	MatchedTerms  []string  `json:"matched_terms"`
	RegisterURL   string    `json:"register_url,omitempty"`
	DetectedAt    time.Time `json:"detected_at"`
}

// NewEventEnvelope wraps a payload for publishing.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeSerialization, "envelope has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode payload")
	}
	return nil
}

// Encode serializes the envelope for the wire.
func (e *EventEnvelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	return data, nil
}

// DecodeEnvelope parses a wire message back into an envelope.
func DecodeEnvelope(data []byte) (*EventEnvelope, error) {
	var e EventEnvelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &e, nil
}

// HighestRisk picks the worst risk level across conflicts for the completed
// event.  Empty input reports low.
func HighestRisk(conflicts []trademark.ScoredConflict) trademark.RiskLevel {
	worst := trademark.RiskLow
	for _, c := range conflicts {
		switch c.RiskLevel {
		case trademark.RiskHigh:
			return trademark.RiskHigh
		case trademark.RiskMedium:
			worst = trademark.RiskMedium
		}
	}
	return worst
}
