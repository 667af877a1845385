// Package retry executes external calls with bounded retries. The policy is
// backend-agnostic: it only ever sees an error classification, never the
// service that produced the error.
package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"
)

// Class is the closed set of failure classifications the policy acts on.
type Class int

const (
	// ClassUnknown covers errors the classifier cannot place. Treated as
	// non-retriable so programming errors never loop.
	ClassUnknown Class = iota
	// ClassRateLimited is an explicit "too many requests" signal. Never
	// retried; the caller should answer "busy" immediately.
	ClassRateLimited
	// ClassTransient covers connectivity failures, timeouts and upstream
	// 5xx responses. Retried up to the attempt limit.
	ClassTransient
	// ClassClient covers 4xx-equivalent caller errors. Never retried.
	ClassClient
)

func (c Class) String() string {
	switch c {
	case ClassRateLimited:
		return "rate_limited"
	case ClassTransient:
		return "transient"
	case ClassClient:
		return "client"
	default:
		return "unknown"
	}
}

// Classifier maps a raw error to a Class.
type Classifier func(error) Class

// statusCoder is implemented by adapter errors that carry an upstream HTTP
// status. Classification happens through this capability so the policy
// stays free of backend-specific error types.
type statusCoder interface {
	HTTPStatus() int
}

// Classify is the default classifier shared by every adapter.
func Classify(err error) Class {
	if err == nil {
		return ClassUnknown
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		switch status := sc.HTTPStatus(); {
		case status == 429:
			return ClassRateLimited
		case status >= 500:
			return ClassTransient
		case status >= 400:
			return ClassClient
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassTransient
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassTransient
	}

	return ClassUnknown
}

// Policy is a reusable retry policy. The zero value is not usable; build
// one with NewPolicy or DefaultPolicy.
type Policy struct {
	MaxAttempts int
	// Delays between attempts; the last entry is reused for any attempt
	// beyond the schedule's length.
	Delays []time.Duration
	// Classify defaults to the package-level Classify.
	Classify Classifier
	// Sleep suspends between attempts. Replaceable in tests; the default
	// honors context cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

func NewPolicy(maxAttempts int, delays []time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Delays:      delays,
	}
}

func DefaultPolicy() Policy {
	return NewPolicy(3, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second})
}

func (p Policy) delay(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if attempt >= len(p.Delays) {
		return p.Delays[len(p.Delays)-1]
	}
	return p.Delays[attempt]
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs op until it succeeds, a non-retriable error occurs, or the
// attempt limit is reached. After exhaustion the last observed error is
// returned, never swallowed.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T

	classify := p.Classify
	if classify == nil {
		classify = Classify
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		switch classify(err) {
		case ClassTransient:
			lastErr = err
			if attempt < p.MaxAttempts-1 {
				if sleepErr := sleep(ctx, p.delay(attempt)); sleepErr != nil {
					return zero, lastErr
				}
			}
		default:
			// Rate limits, client errors and unclassified failures
			// propagate immediately.
			return zero, err
		}
	}

	return zero, lastErr
}
