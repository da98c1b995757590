package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials indicates a backend was constructed without an
	// API key. Construction fails before any network call is attempted.
	ErrMissingCredentials = errors.New("provider credentials not configured")

	// ErrInvalidParameter indicates a generation spec outside the accepted range.
	ErrInvalidParameter = errors.New("invalid generation parameter")

	// ErrTimeout indicates a provider call exceeded its deadline.
	ErrTimeout = errors.New("provider call timed out")

	// ErrUnknownProvider indicates a backend name with no registry entry.
	ErrUnknownProvider = errors.New("unknown provider")
)

// ProviderError reports a failed upstream generative API call. It is
// surfaced verbatim to the caller; no retries, no fallback at this layer.
type ProviderError struct {
	Provider string // Backend name
	Status   int    // Upstream HTTP status, 0 when the call never completed
	Message  string // Raw upstream message
	Err      error  // Underlying error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s returned %d: %s", e.Provider, e.Status, e.Message)
	}

	return fmt.Sprintf("provider %s call failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsMissingCredentials checks for a configuration failure.
func IsMissingCredentials(err error) bool {
	return errors.Is(err, ErrMissingCredentials)
}

// IsInvalidParameter checks for a caller-side parameter failure.
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

// IsTimeout checks for a provider deadline failure.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsProviderError checks for an upstream call failure.
func IsProviderError(err error) bool {
	var providerErr *ProviderError

	return errors.As(err, &providerErr)
}
