package core

import "time"

// EventType enumerates the execution events appended to ExecutionContext's
// history. The reflection engine's trigger evaluator scans a strict suffix of
// this history (see ReflectionEngine.ShouldReflect).
type EventType string

const (
	EventTaskStarted EventType = "task_started"
	EventTaskCompleted EventType = "task_completed"
	EventTaskFailed EventType = "task_failed"
	EventErrorOccurred EventType = "error_occurred"
)

// ExecutionEvent is a single entry in the ordered, append-only history kept
// on ExecutionContext.
type ExecutionEvent struct {
	Type EventType
	Timestamp time.Time
	TaskID string
	Message string
	Metadata map[string]string
}
