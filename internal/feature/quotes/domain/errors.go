// Package domain defines domain-level errors for the quotes feature.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds. FetchError and NormalizationError match these with errors.Is.
var (
	// ErrTransport indicates the provider could not be reached or answered with a non-2xx status.
	ErrTransport = errors.New("transport failure")

	// ErrProviderRejected indicates a well-formed response that reports an API-level problem
	// (invalid symbol, rate limit, bad key) or carries no time series.
	ErrProviderRejected = errors.New("provider rejected request")

	// ErrEmptySeries indicates that every record in the payload was dropped during normalization.
	ErrEmptySeries = errors.New("empty series")
)

// FetchError is returned by the raw quote client.
type FetchError struct {
	Kind   error // ErrTransport or ErrProviderRejected
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch: %v: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("fetch: %v: %s", e.Kind, e.Detail)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewTransportError wraps a transport-level cause.
func NewTransportError(detail string, err error) *FetchError {
	return &FetchError{Kind: ErrTransport, Detail: detail, Err: err}
}

// NewProviderRejectedError reports an API-level rejection.
func NewProviderRejectedError(detail string) *FetchError {
	return &FetchError{Kind: ErrProviderRejected, Detail: detail}
}

// NormalizationError is returned by the series normalizer.
type NormalizationError struct {
	Kind    error // ErrEmptySeries
	Dropped int   // records dropped before giving up
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize: %v (%d records dropped)", e.Kind, e.Dropped)
}

func (e *NormalizationError) Unwrap() error { return e.Kind }
