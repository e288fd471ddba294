package engine

import "context"

type wfCtxKey struct{}
type activityCtxKey struct{}

// WithWorkflowContext returns a child context carrying wf, so code reached
// from an activity (which only has a plain context.Context) can retrieve the
// WorkflowContext that scheduled it, if needed.
func WithWorkflowContext(ctx context.Context, wf WorkflowContext) context.Context {
	return context.WithValue(ctx, wfCtxKey{}, wf)
}

// WorkflowContextFromContext extracts a WorkflowContext attached by
// WithWorkflowContext, or nil if ctx carries none.
func WorkflowContextFromContext(ctx context.Context) WorkflowContext {
	if v := ctx.Value(wfCtxKey{}); v != nil {
		if wf, ok := v.(WorkflowContext); ok {
			return wf
		}
	}
	return nil
}

// WithActivityContext returns a child context marked as originating from an
// activity invocation, so shared code (e.g. agenterrors classification) can
// tell an activity context from a workflow context when it matters.
func WithActivityContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, activityCtxKey{}, true)
}

// IsActivityContext reports whether ctx was marked by WithActivityContext.
func IsActivityContext(ctx context.Context) bool {
	v := ctx.Value(activityCtxKey{})
	b, ok := v.(bool)
	return ok && b
}
