// Package temporal implements engine.Engine on top of Temporal, the durable
// execution backend this module uses as the concrete realization of
// "suspension only at external call boundaries, cancellation observed at the
// next checkpoint." The orchestrator's ReAct loop is registered as a single
// Temporal workflow; reasoning calls, tool execution, and memory
// consolidation writes are registered as activities. Temporal's
// deterministic-replay model requires the workflow function itself to avoid
// direct I/O, time.Now, and goroutine/channel use outside what workflow.Context
// provides — engine.WorkflowContext is the seam that keeps the orchestrator
// loop's code identical across the inmem and temporal adapters while only
// this package touches the Temporal SDK directly.
//
// Grounded on the teacher's runtime/agent/engine/temporal package, trimmed to
// a single default task queue and without the OTEL tracing/metrics
// interceptor wiring (goa.design/clue + go.opentelemetry.io/otel already
// cover this module's observability surface via agent/telemetry; the
// Temporal-specific OTEL contrib interceptor is a separate dependency this
// module does not otherwise need).
package temporal
