package ports

import "context"

// Transport performs one authenticated upload per measurement slice.
//
// Send posts the already-serialized payload and returns the number of
// payload bytes written. Failures are classified into the sentinel and
// typed errors of this package: ErrUnauthorized, *BadRequestError,
// *TransmissionError, *NetworkError, *ResponseParsingError.
type Transport interface {
	Send(ctx context.Context, token string, payload []byte) (int64, error)
}
