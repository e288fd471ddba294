// Package agenterrors provides the structured error type used across the
// core. It preserves message and causal chains (errors.Is/As) while carrying
// an ErrorKind so callers can apply the recovery policy of without
// string-matching error text. Grounded on the teacher's runtime/agent/toolerrors
// package: same New/NewWithCause/FromError/Errorf shape, generalized with a
// Kind field since this core's error taxonomy is broader than tool failures
// alone.
package agenterrors

import (
	"errors"
	"fmt"
)

// Kind categorizes an error taxonomy. Each kind has a stable
// handling policy documented on the constant.
type Kind string

const (
	// KindConfiguration: missing parameter, invalid value. Fatal at startup;
	// never raised mid-run.
	KindConfiguration Kind = "configuration"
	// KindAuthentication: missing/invalid token. Surfaces from the engine;
	// orchestrator marks the iteration failed and continues.
	KindAuthentication Kind = "authentication"
	// KindNetwork: timeout, 5xx, DNS. Retried with exponential backoff by the
	// engine adapter; treated as KindEngine after exhaustion.
	KindNetwork Kind = "network"
	// KindEngine: API error, model unavailable. One refinement retry for
	// generation tasks, else fail the tick.
	KindEngine Kind = "engine"
	// KindAction: validation failure, tool error. Produces a non-success
	// ActionResult.
	KindAction Kind = "action"
	// KindFile: not found, permission denied, path traversal. Non-success
	// ActionResult; reflection may route around it.
	KindFile Kind = "file"
	// KindValidation: dangerous pattern, oversize input. Planner must not
	// emit; executor rejects.
	KindValidation Kind = "validation"
	// KindCost: limit exceeded. Executor refuses; reflection may downshift
	// model.
	KindCost Kind = "cost"
	// KindStorage: connection, query, transaction. Memory layer degrades to
	// in-process only; run continues.
	KindStorage Kind = "storage"
	// KindLock: timeout, poison. Caller decides, usually continue.
	KindLock Kind = "lock"
	// KindInternal: unreachable. Fatal to the run.
	KindInternal Kind = "internal"
)

// Fatal reports whether errors of this kind should terminate the run rather
// than be recorded and continued past.
func (k Kind) Fatal() bool {
	return k == KindInternal || k == KindConfiguration
}

// AgentError is the structured error type threaded through the core.
type AgentError struct {
	Kind Kind
	Message string
	Cause *AgentError
}

// New constructs an AgentError with the given kind and message.
func New(kind Kind, message string) *AgentError {
	if message == "" {
		message = string(kind) + " error"
	}
	return &AgentError{Kind: kind, Message: message}
}

// NewWithCause constructs an AgentError of kind that wraps an underlying
// error, converting it into an AgentError chain so the kind/message survive
// serialization while still supporting errors.Is/As via Unwrap.
func NewWithCause(kind Kind, message string, cause error) *AgentError {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &AgentError{Kind: kind, Message: message, Cause: FromError(cause)}
}

// FromError converts an arbitrary error into an AgentError chain. If err is
// already (or wraps) an AgentError, that chain is reused; otherwise it is
// classified KindInternal.
func FromError(err error) *AgentError {
	if err == nil {
		return nil
	}
	var ae *AgentError
	if errors.As(err, &ae) {
		return ae
	}
	return &AgentError{Kind: KindInternal, Message: err.Error(), Cause: FromError(errors.Unwrap(err))}
}

// Errorf formats a message and returns it as an AgentError of kind.
func Errorf(kind Kind, format string, args...any) *AgentError {
	return New(kind, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap supports errors.Is/As across the cause chain.
func (e *AgentError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return nil
	}
	return e.Cause
}

// ErrLockTimeout is returned when a guarded lock acquisition exceeds its
// per-callsite timeout (see agent/lock).
var ErrLockTimeout = New(KindLock, "lock acquisition timed out")
