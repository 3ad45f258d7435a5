package ports

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when no credential source is configured at all.
var ErrAuthRequired = errors.New("tracksync: authentication required")

// ErrAuthExpired is returned when a token fetch timed out or the provider
// declined to issue a fresh token.
var ErrAuthExpired = errors.New("tracksync: auth token expired")

// ErrUnauthorized is returned when the collector rejected the token
// (HTTP 401/403). Fatal for the remaining slices of the measurement.
var ErrUnauthorized = errors.New("tracksync: unauthorized")

// NetworkError wraps connectivity failures (DNS, timeout, refused
// connection). The run continues with the next measurement.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Cause) }
func (e *NetworkError) Unwrap() error { return e.Cause }

// ResponseParsingError indicates the server answered with a body the
// client could not read. Fatal for the current slice only.
type ResponseParsingError struct {
	Cause error
}

func (e *ResponseParsingError) Error() string { return fmt.Sprintf("unreadable response: %v", e.Cause) }
func (e *ResponseParsingError) Unwrap() error { return e.Cause }

// BadRequestError reports an HTTP 400, usually a payload the collector
// considers malformed or already known.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return fmt.Sprintf("bad request: %s", e.Message) }

// TransmissionError carries any other non-2xx status code returned by the
// collector. Reported, never retried within the same run.
type TransmissionError struct {
	StatusCode int
	Message    string
}

func (e *TransmissionError) Error() string {
	return fmt.Sprintf("transmission failed with status %d: %s", e.StatusCode, e.Message)
}
