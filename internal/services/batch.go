package services

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibes/internal/shared"
)

const (
	defaultMaxAttempts = 4
	defaultBaseDelay   = 500 * time.Millisecond
	defaultMaxDelay    = 30 * time.Second
)

// batchState tracks a single batch request through its retry lifecycle.
type batchState int

const (
	statePending batchState = iota
	stateInFlight
	stateSuccess
	stateRetryable
	stateFatal
)

func (s batchState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateInFlight:
		return "in_flight"
	case stateSuccess:
		return "success"
	case stateRetryable:
		return "retryable"
	case stateFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// RetryPolicy bounds how often and how long a batch request is retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// retryPolicyFromConfig builds a [RetryPolicy] from catalog settings, falling
// back to package defaults for unset values.
func retryPolicyFromConfig(cfg shared.CatalogConfig) RetryPolicy {
	policy := RetryPolicy{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Duration(cfg.RetryBaseMS) * time.Millisecond,
		MaxDelay:    defaultMaxDelay,
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaultMaxAttempts
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = defaultBaseDelay
	}
	return policy
}

// backoff returns an exponentially growing delay for the given attempt,
// capped at MaxDelay. Half the delay is jittered so concurrent batches do
// not retry in lockstep.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	delay := p.BaseDelay * time.Duration(1<<attempt)
	if delay <= 0 || delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	half := delay / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

// classify decides whether a batch error is worth another attempt and how
// long to wait first. Rate limits honor the provider's Retry-After when one
// was sent; transient upstream failures use exponential backoff.
func (p RetryPolicy) classify(err error, attempt int) (batchState, time.Duration) {
	var rateErr *shared.RateLimitError
	if errors.As(err, &rateErr) {
		delay := rateErr.RetryAfter
		if delay <= 0 {
			delay = p.backoff(attempt)
		}
		return stateRetryable, delay
	}
	if errors.Is(err, shared.ErrCatalogUnavailable) {
		return stateRetryable, p.backoff(attempt)
	}
	return stateFatal, 0
}

// runBatch drives one batch request through the retry state machine until it
// succeeds, fails fatally, or exhausts the attempt budget. The last error is
// returned on exhaustion so callers can distinguish rate limiting from an
// unavailable catalog.
func runBatch(ctx context.Context, policy RetryPolicy, logger *log.Logger, name string, call func(context.Context) error) error {
	state, delay := statePending, time.Duration(0)
	var lastErr error

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if state == stateRetryable {
			logger.Warn("retrying batch", "batch", name, "attempt", attempt+1, "delay", delay, "err", lastErr)
			if err := sleepWithContext(ctx, delay); err != nil {
				return err
			}
		}

		logger.Debug("batch request", "batch", name, "state", stateInFlight.String(), "attempt", attempt+1)
		err := call(ctx)
		if err == nil {
			logger.Debug("batch request", "batch", name, "state", stateSuccess.String(), "attempt", attempt+1)
			return nil
		}
		lastErr = err

		state, delay = policy.classify(err, attempt)
		if state == stateFatal {
			return err
		}
	}

	logger.Error("batch attempts exhausted", "batch", name, "attempts", policy.MaxAttempts, "err", lastErr)
	return lastErr
}

// parseRetryAfter reads a Retry-After header value given either as seconds
// or as an HTTP date.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(value); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// chunk splits ids into consecutive batches of at most size elements.
func chunk(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]string{ids}
	}
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
