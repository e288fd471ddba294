// Package telemetry defines the logging/metrics/tracing interfaces the core
// depends on, and provides Noop implementations plus OTEL/clue-backed ones.
// Grounded on the teacher's runtime/agent/telemetry package (same three
// interfaces, same Clue*/Noop* naming).
package telemetry

import (
	"context"
	"time"
)

type (
	// Logger emits structured log lines. Implementations read formatting/debug
	// settings from ctx where the backing library supports it.
	Logger interface {
		Debug(ctx context.Context, msg string, keyvals...any)
		Info(ctx context.Context, msg string, keyvals...any)
		Warn(ctx context.Context, msg string, keyvals...any)
		Error(ctx context.Context, msg string, keyvals...any)
	}

	// Metrics records counters, histograms, and gauges.
	Metrics interface {
		IncCounter(name string, value float64, tags...string)
		RecordTimer(name string, duration time.Duration, tags...string)
		RecordGauge(name string, value float64, tags...string)
	}

	// Tracer starts spans.
	Tracer interface {
		Start(ctx context.Context, name string) (context.Context, Span)
	}

	// Span is a started trace span.
	Span interface {
		End()
		SetError(err error)
		SetAttribute(key string, value any)
	}
)

// NoopLogger discards all log calls.
type NoopLogger struct{}

func (NoopLogger) Debug(context.Context, string,...any) {}
func (NoopLogger) Info(context.Context, string,...any) {}
func (NoopLogger) Warn(context.Context, string,...any) {}
func (NoopLogger) Error(context.Context, string,...any) {}

// NoopMetrics discards all metric calls.
type NoopMetrics struct{}

func (NoopMetrics) IncCounter(string, float64,...string) {}
func (NoopMetrics) RecordTimer(string, time.Duration,...string) {}
func (NoopMetrics) RecordGauge(string, float64,...string) {}

// NoopTracer returns no-op spans.
type NoopTracer struct{}

func (NoopTracer) Start(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End() {}
func (noopSpan) SetError(error) {}
func (noopSpan) SetAttribute(string, any) {}
