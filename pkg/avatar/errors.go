package avatar

import (
	"errors"
	"fmt"
)

// Common client errors
var (
	// ErrClientClosed indicates the client has been closed and can no longer
	// issue requests.
	ErrClientClosed = errors.New("avatar client is closed")

	// ErrNoProviders indicates no provider is configured.
	ErrNoProviders = errors.New("no avatar providers configured")
)

// TransportError represents a failed call to a single provider: a network
// error, a timeout, or a non-2xx status. It is recovered locally by the
// failover router and never escapes Speak.
type TransportError struct {
	Provider   ProviderID
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s transport error: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support for TransportError.
// This allows errors.Is(err, &TransportError{}) to work with wrapped errors.
func (e *TransportError) Is(target error) bool {
	_, ok := target.(*TransportError)
	return ok
}

// AllProvidersFailedError indicates every candidate provider was either
// unhealthy or failed. It carries the last underlying error and is the only
// error that escapes the client's Speak call.
type AllProvidersFailedError struct {
	LastErr error
}

func (e *AllProvidersFailedError) Error() string {
	if e.LastErr == nil {
		return "all avatar providers failed"
	}
	return fmt.Sprintf("all avatar providers failed, last error: %v", e.LastErr)
}

func (e *AllProvidersFailedError) Unwrap() error {
	return e.LastErr
}

// Is implements errors.Is support for AllProvidersFailedError.
func (e *AllProvidersFailedError) Is(target error) bool {
	_, ok := target.(*AllProvidersFailedError)
	return ok
}

// UnsupportedProviderError indicates configuration references a provider
// identity with no registered transport. This is a configuration error,
// fatal at startup, never a runtime retry case.
type UnsupportedProviderError struct {
	Provider ProviderID
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported avatar provider: %s", e.Provider)
}

// Is implements errors.Is support for UnsupportedProviderError.
func (e *UnsupportedProviderError) Is(target error) bool {
	_, ok := target.(*UnsupportedProviderError)
	return ok
}
