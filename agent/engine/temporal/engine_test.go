package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/njfio/fluent-agent-core/agent/engine"
)

func TestConvertRetryPolicy_ZeroValueReturnsNil(t *testing.T) {
	t.Parallel()

	require.Nil(t, convertRetryPolicy(engine.RetryPolicy{}))
}

func TestConvertRetryPolicy_CarriesFields(t *testing.T) {
	t.Parallel()

	rp := convertRetryPolicy(engine.RetryPolicy{
			MaxAttempts: 3,
			InitialInterval: 500 * time.Millisecond,
			BackoffCoefficient: 2,
		})
	require.NotNil(t, rp)
	require.EqualValues(t, 3, rp.MaximumAttempts)
	require.Equal(t, 500*time.Millisecond, rp.InitialInterval)
	require.Equal(t, 2.0, rp.BackoffCoefficient)
}

func TestTaskQueueOrDefault(t *testing.T) {
	t.Parallel()

	require.Equal(t, "explicit", taskQueueOrDefault("explicit", "fallback"))
	require.Equal(t, "fallback", taskQueueOrDefault("", "fallback"))
}

func TestActivityOptions_DefaultsTimeoutWhenUnset(t *testing.T) {
	t.Parallel()

	opts := activityOptions(engine.ActivityRequest{Name: "x"})
	require.Equal(t, time.Minute, opts.StartToCloseTimeout)
}

func TestActivityOptions_HonorsExplicitTimeoutAndQueue(t *testing.T) {
	t.Parallel()

	opts := activityOptions(engine.ActivityRequest{Name: "x", Queue: "q", Timeout: 5 * time.Second})
	require.Equal(t, 5*time.Second, opts.StartToCloseTimeout)
	require.Equal(t, "q", opts.TaskQueue)
}

func TestNormalizeError_NilPassesThrough(t *testing.T) {
	t.Parallel()

	require.NoError(t, normalizeError(nil))
}
