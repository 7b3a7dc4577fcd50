package models

import (
	"errors"
	"fmt"
)

// Error taxonomy for adapter failures. Every per-ticker error is caught
// at the ticker boundary and classified into one of these; none of them
// ever aborts a scan run.
var (
	// ErrAdapterUnavailable indicates a network or provider failure
	ErrAdapterUnavailable = errors.New("adapter unavailable")

	// ErrNoData indicates an empty or insufficient series for a ticker
	ErrNoData = errors.New("no data")

	// ErrMalformedResponse indicates an unexpected response shape
	ErrMalformedResponse = errors.New("malformed response")
)

// AdapterUnavailable wraps err as an adapter availability failure
func AdapterUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrAdapterUnavailable, err)
}

// MalformedResponse wraps err as a response shape failure
func MalformedResponse(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrMalformedResponse, err)
}

// NoData reports an empty result for a ticker
func NoData(ticker string) error {
	return fmt.Errorf("%s: %w", ticker, ErrNoData)
}
