// Package domain defines domain-level errors for the forecast feature.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData indicates the series has fewer than two usable records.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidHorizon indicates a forecast horizon outside the accepted range.
	ErrInvalidHorizon = errors.New("invalid horizon")
)

// ModelError is returned by the trend model.
type ModelError struct {
	Kind   error // ErrInsufficientData or ErrInvalidHorizon
	Detail string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("trend model: %v: %s", e.Kind, e.Detail)
}

func (e *ModelError) Unwrap() error { return e.Kind }
