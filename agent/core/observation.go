package core

import (
	"time"

	"github.com/google/uuid"
)

// ObservationType tags the provenance of an Observation.
type ObservationType string

const (
	ObservationActionResult ObservationType = "action_result"
	ObservationEnvironmentChange ObservationType = "environment_change"
	ObservationReflection ObservationType = "reflection"
	ObservationLearning ObservationType = "learning"
)

// Observation is the processed outcome the ObservationProcessor derives from
// an ActionResult (or an environment change, or a reflection/learning
// signal). Relevance contract: success implies relevance >= 0.7; failure
// relevance is bounded above by 0.5 (see ObservationProcessor).
type Observation struct {
	ID string
	Timestamp time.Time
	Type ObservationType
	Content string
	Source string
	Relevance float64
	Impact string
}

// NewObservation stamps a fresh ID and timestamp, and clamps relevance into
// [0,1]. t should come from a monotonic, strictly-increasing clock source so
// Observation ordering is well defined even when two observations are
// produced within the same wall-clock tick.
func NewObservation(t time.Time, typ ObservationType, content, source string, relevance float64) Observation {
	if relevance < 0 {
		relevance = 0
	}
	if relevance > 1 {
		relevance = 1
	}
	return Observation{
		ID: uuid.NewString(),
		Timestamp: t,
		Type: typ,
		Content: content,
		Source: source,
		Relevance: relevance,
	}
}
