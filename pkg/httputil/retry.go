package httputil

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// transient marks an error worth another attempt.
type transient struct{ err error }

func (t *transient) Error() string { return t.err.Error() }
func (t *transient) Unwrap() error { return t.err }

// Retryable marks err as transient so that [Policy.Do] tries again. A nil
// err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transient{err: err}
}

// IsRetryable reports whether err or anything it wraps was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var t *transient
	return errors.As(err, &t)
}

// TransientStatus reports whether an HTTP status code is worth retrying:
// 408, 429 and every 5xx except 501.
func TransientStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code == http.StatusNotImplemented:
		return false
	default:
		return code >= 500 && code <= 599
	}
}

// Policy controls how a call is retried.
type Policy struct {
	Attempts int           // total tries; values below 1 mean one
	Delay    time.Duration // wait before the second try, doubled after each failure
	MaxDelay time.Duration // cap on a single wait; zero means uncapped

	// OnRetry, if set, is called before each wait with the attempt that
	// just failed (starting at 1).
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Do runs fn until it succeeds, returns an error not marked [Retryable],
// or runs out of attempts. The error returned is the last one fn produced
// with the retry mark removed, or ctx.Err() if ctx ends during a wait.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	wait := p.Delay

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) || attempt == attempts {
			return unmark(err)
		}

		if p.MaxDelay > 0 && wait > p.MaxDelay {
			wait = p.MaxDelay
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait, unmark(err))
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}

// Retry runs fn under a policy of attempts tries starting at delay.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

func unmark(err error) error {
	if t, ok := err.(*transient); ok {
		return t.err
	}
	return err
}
