// Package observation implements the ObservationProcessor of :
// turns an ActionResult (or an environment change) into an Observation with
// a fixed relevance contract, never mutating the caller's context. Grounded
// on the teacher's runtime/agent event-translation idiom (pure functions
// from one event shape to another; the caller owns appending to history).
package observation

import (
	"time"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Fixed relevance values assigns to processed observations.
const (
	successRelevance = 0.9
	failureRelevance = 0.4
	environmentChangeRelevance = 0.5
)

// Processor is the capability calls ObservationProcessor. Now
// supplies the timestamp source; a nil Now defaults to time.Now.
type Processor struct {
	Now func() time.Time
}

// New builds a Processor using time.Now as its clock.
func New() *Processor {
	return &Processor{Now: time.Now}
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Process implements process(result, context) -> Observation:
//
// content = result.output, falling back to result.error, falling back to ""
// source = result.Type rendered as a string
// relevance = 0.9 on success, 0.4 on failure
//
// Process never mutates execCtx; the caller is responsible for appending the
// returned Observation to its history.
func (p *Processor) Process(result core.ActionResult, _ *core.ExecutionContext) core.Observation {
	content := result.Output
	if content == "" {
		content = result.Error
	}
	relevance := failureRelevance
	if result.Success {
		relevance = successRelevance
	}
	return core.NewObservation(p.now(), core.ObservationActionResult, content, string(result.Type), relevance)
}

// EnvironmentChange describes an externally observed change not produced by
// one of this run's own ActionResults (e.g. a file appearing on disk that
// another process wrote).
type EnvironmentChange struct {
	Description string
	Source string
}

// ProcessEnvironmentChange builds an Observation from an environment change
// not tied to one of this run's own ActionResults, fixed at relevance 0.5.
func (p *Processor) ProcessEnvironmentChange(change EnvironmentChange, _ *core.ExecutionContext) core.Observation {
	source := change.Source
	if source == "" {
		source = "environment"
	}
	return core.NewObservation(p.now(), core.ObservationEnvironmentChange, change.Description, source, environmentChangeRelevance)
}

// ProcessLearning emits a "learning" observation when a consolidation pass
// (agent/memory) detects a pattern crossing a significance threshold, per
// note that processors also emit learning observations.
func (p *Processor) ProcessLearning(content, source string, relevance float64) core.Observation {
	return core.NewObservation(p.now(), core.ObservationLearning, content, source, relevance)
}
