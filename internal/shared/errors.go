package shared

import (
	"fmt"
	"time"
)

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Catalog errors
	ErrUnauthorized       = fmt.Errorf("catalog credential rejected")
	ErrRateLimited        = fmt.Errorf("catalog rate limit exceeded")
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")
	ErrNotFound           = fmt.Errorf("not found")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// RateLimitError carries the delay the catalog requested with a rate-limit
// response. A zero RetryAfter means the server supplied no delay and the
// caller chooses its own backoff.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("catalog rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return ErrRateLimited.Error()
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// PartialWriteError reports a mutation that failed after a playlist had
// already been created, so the caller keeps a handle for cleanup.
type PartialWriteError struct {
	PlaylistID string
	Err        error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("playlist %s created but population failed: %v", e.PlaylistID, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
