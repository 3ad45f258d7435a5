package sync

import (
	"errors"

	"github.com/movetrack/tracksync/internal/ports"
)

// Result summarizes a single sync run. Errors are counted, not collected:
// a run keeps going past failed measurements, and callers inspect the
// counters to decide whether to retry or alert.
type Result struct {
	MeasurementsSynced int64
	PointsUploaded     int64
	BytesUploaded      int64

	ParseErrors    int64
	AuthErrors     int64
	IOErrors       int64
	ConflictErrors int64
	DatabaseError  bool
}

func (r *Result) HasError() bool {
	return r.ParseErrors > 0 || r.AuthErrors > 0 || r.IOErrors > 0 ||
		r.ConflictErrors > 0 || r.DatabaseError
}

// record classifies err into one of the result counters.
func (r *Result) record(err error) {
	switch {
	case errors.Is(err, ports.ErrUnauthorized),
		errors.Is(err, ports.ErrAuthRequired),
		errors.Is(err, ports.ErrAuthExpired):
		r.AuthErrors++
	case errors.Is(err, ports.ErrStoreUnavailable),
		errors.Is(err, ports.ErrNotFound):
		r.DatabaseError = true
	default:
		var (
			badReq   *ports.BadRequestError
			transmit *ports.TransmissionError
			network  *ports.NetworkError
			parse    *ports.ResponseParsingError
		)
		switch {
		case errors.As(err, &badReq):
			r.ConflictErrors++
		case errors.As(err, &transmit), errors.As(err, &network):
			r.IOErrors++
		case errors.As(err, &parse):
			r.ParseErrors++
		default:
			r.ParseErrors++
		}
	}
}
