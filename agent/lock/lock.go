// Package lock implements the poisoned-mutex handling strategies and
// lock-timeout tiers of : FailFast (default), RecoverData, UseDefault,
// and RetryWithDelay, selected per callsite, plus short/medium/long/unlimited
// acquisition timeouts.
package lock

import (
	"context"
	"time"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
)

// Strategy selects how a Guarded value behaves when its protected section
// panics (the in-process analogue of a poisoned mutex).
type Strategy string

const (
	// FailFast propagates the panic as an error. Default.
	FailFast Strategy = "fail_fast"
	// RecoverData swallows the panic and returns a nil error. fn's results are
	// only assigned when it returns, so the value after a panic is T's zero
	// value; no partial value is recovered.
	RecoverData Strategy = "recover_data"
	// UseDefault substitutes the zero value and continues.
	UseDefault Strategy = "use_default"
	// RetryWithDelay retries the guarded section a bounded number of times
	// with exponential delay before giving up.
	RetryWithDelay Strategy = "retry_with_delay"
)

// Timeout tiers.
const (
	TimeoutShort = 5 * time.Second
	TimeoutMedium = 30 * time.Second
	TimeoutLong = 120 * time.Second
	TimeoutUnlimited = 0 // no deadline; critical paths only
)

// Guarded executes fn under the given strategy, recovering from panics
// according to Strategy. It does not itself hold a mutex — callers combine it
// with their own sync.Mutex/RWMutex critical sections; Guarded's job is only
// to classify and react to a poisoned section (one that panicked while
// holding the lock).
func Guarded[T any](strategy Strategy, attempts int, fn func() (T, error)) (result T, err error) {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, lastErr = callGuarded(strategy, fn)
		if lastErr == nil {
			return result, nil
		}
		if strategy != RetryWithDelay || attempt == attempts-1 {
			break
		}
		time.Sleep(time.Duration(1<<uint(attempt)) * 10 * time.Millisecond)
	}
	return result, lastErr
}

func callGuarded[T any](strategy Strategy, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch strategy {
			case UseDefault:
				var zero T
				result = zero
				err = nil
			case RecoverData:
				err = nil
			default:
				err = agenterrors.Errorf(agenterrors.KindLock, "guarded section panicked: %v", r)
			}
		}
	}()
	return fn()
}

// WithTimeout runs fn, returning agenterrors.ErrLockTimeout if the timeout
// elapses first. A zero timeout means unlimited (runs fn on the caller's
// goroutine with no deadline).
func WithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type out struct {
		v T
		err error
	}
	ch := make(chan out, 1)
	go func() {
		v, err := fn(ctx)
		ch <- out{v, err}
	}()
	select {
	case o := <-ch:
		return o.v, o.err
	case <-ctx.Done():
		var zero T
		return zero, agenterrors.ErrLockTimeout
	}
}
