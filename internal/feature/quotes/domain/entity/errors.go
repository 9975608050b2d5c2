package entity

import "errors"

// ErrEmptySymbol is returned when a quote request carries a blank ticker.
var ErrEmptySymbol = errors.New("symbol must not be empty")
