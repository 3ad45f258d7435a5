package ports

import (
	"context"
	"errors"

	"github.com/movetrack/tracksync/internal/domain"
)

// ErrStoreUnavailable is returned when the backing access layer cannot be
// reached at all, e.g. a lost database connection.
var ErrStoreUnavailable = errors.New("tracksync: point store unavailable")

// ErrNotFound is returned when a measurement identifier is absent from the store.
var ErrNotFound = errors.New("tracksync: measurement not found")

// PointStore is the only storage contract the sync pipeline depends on.
//
// Load windows are positional and must be stable for the duration of one
// sync run: entries removed by DeletePoints surface as short pages, never
// as shifted offsets. Implementations may defer physical deletion until
// DeleteMeasurement (the reference adapters mark rows synced instead).
type PointStore interface {
	// ListMeasurements returns all measurements in the given status,
	// ordered by identifier.
	ListMeasurements(ctx context.Context, status domain.MeasurementStatus) ([]domain.Measurement, error)

	// CountPoints returns the positional extent of one family: the number of
	// window positions, rows retired by DeletePoints included. Cursors must
	// be able to sweep past a retired prefix left behind by an earlier run,
	// so the count may not shrink before DeleteMeasurement.
	CountPoints(ctx context.Context, measurementID int64, t domain.PointType) (int64, error)

	// LoadLocations reads the location window [offset, offset+limit).
	LoadLocations(ctx context.Context, measurementID int64, offset, limit int64) ([]domain.GeoLocation, error)

	// LoadPoints reads a 3D-point window [offset, offset+limit) for one of
	// the acceleration, rotation or direction families.
	LoadPoints(ctx context.Context, measurementID int64, t domain.PointType, offset, limit int64) ([]domain.Point3D, error)

	// DeletePoints removes one window of a family from the syncable set and
	// returns how many points it covered.
	DeletePoints(ctx context.Context, measurementID int64, t domain.PointType, offset, limit int64) (int64, error)

	// SetStatus moves a measurement to a new lifecycle state.
	SetStatus(ctx context.Context, measurementID int64, status domain.MeasurementStatus) error

	// DeleteMeasurement removes the measurement and any remaining point
	// state, returning the number of points physically deleted.
	DeleteMeasurement(ctx context.Context, measurementID int64) (int64, error)
}
