package tracksync

import (
	"context"
	"fmt"

	"github.com/movetrack/tracksync/internal/adapters/memstore"
	"github.com/movetrack/tracksync/internal/domain"
)

// Recorder lets external producers capture measurements into an in-memory
// point store that a Runtime can drain. It is meant for embedding: record
// tracks from any source, finish them, and hand Store() to WithStore so the
// next sync pass uploads them.
type Recorder struct {
	deviceID string
	store    *memstore.MemStore
}

// NewRecorder creates a Recorder backed by a fresh in-memory store.
func NewRecorder(deviceID string) (*Recorder, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device id is required")
	}
	return &Recorder{deviceID: deviceID, store: memstore.New()}, nil
}

// Store exposes the underlying point store for wiring into a Runtime.
func (r *Recorder) Store() PointStore {
	return r.store
}

// Begin opens a new measurement for the given vehicle and returns a handle
// for appending points to it.
func (r *Recorder) Begin(vehicle string) *Recording {
	id := r.store.CreateMeasurement(r.deviceID, vehicle)
	return &Recording{recorder: r, id: id}
}

// Recording is a handle on one open measurement.
type Recording struct {
	recorder *Recorder
	id       int64
}

// ID returns the store-assigned measurement identifier.
func (rec *Recording) ID() int64 { return rec.id }

// AddLocations appends GNSS fixes to the open measurement.
func (rec *Recording) AddLocations(locations ...GeoLocation) error {
	return rec.recorder.store.AppendLocations(rec.id, locations...)
}

// AddPoints appends three-axis sensor samples of the given family.
func (rec *Recording) AddPoints(t PointType, points ...Point3D) error {
	if t == domain.PointTypeLocation {
		return fmt.Errorf("location points must be added via AddLocations")
	}
	return rec.recorder.store.AppendPoints(rec.id, t, points...)
}

// Finish closes the measurement so the next sync pass picks it up.
func (rec *Recording) Finish(ctx context.Context) error {
	return rec.recorder.store.SetStatus(ctx, rec.id, domain.StatusFinished)
}
