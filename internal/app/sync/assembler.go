package sync

import (
	"context"
	"fmt"

	"github.com/movetrack/tracksync/internal/domain"
	"github.com/movetrack/tracksync/internal/ports"
)

// Assembler walks one measurement's point data and produces upload slices.
// Each point family advances on its own cursor with its own batch size, so a
// measurement heavy on accelerations and light on locations still drains all
// families in the same number of slices. Cursors advance by the full batch
// size even when the store returns a short page: deletion of already-uploaded
// windows may shrink pages mid-run, and skipping ahead keeps the positional
// windows aligned with what was counted up front.
type Assembler struct {
	store       ports.PointStore
	measurement domain.Measurement
	policy      ports.Policy

	counts  [4]int64
	cursors [4]int64
	emitted bool
}

// NewAssembler counts every point family once so the total is fixed for the
// lifetime of the assembler, regardless of deletions performed between slices.
func NewAssembler(ctx context.Context, store ports.PointStore, m domain.Measurement, policy ports.Policy) (*Assembler, error) {
	a := &Assembler{store: store, measurement: m, policy: policy}
	for i, t := range domain.PointTypes {
		n, err := store.CountPoints(ctx, m.ID, t)
		if err != nil {
			return nil, fmt.Errorf("counting %s points of measurement %d: %w", t, m.ID, err)
		}
		a.counts[i] = n
	}
	return a, nil
}

// Total reports the number of points across all families as counted at
// construction time.
func (a *Assembler) Total() int64 {
	var total int64
	for _, n := range a.counts {
		total += n
	}
	return total
}

// Next returns the next slice, or (nil, nil) once the measurement is
// exhausted. A measurement with no points at all yields exactly one
// header-only slice before terminating, so the remote side still learns
// about it.
func (a *Assembler) Next(ctx context.Context) (*domain.Slice, error) {
	if a.exhausted() {
		if a.emitted {
			return nil, nil
		}
		a.emitted = true
		return &domain.Slice{
			MeasurementID: a.measurement.ID,
			DeviceID:      a.measurement.DeviceID,
			Vehicle:       a.measurement.Vehicle,
		}, nil
	}

	s := &domain.Slice{
		MeasurementID: a.measurement.ID,
		DeviceID:      a.measurement.DeviceID,
		Vehicle:       a.measurement.Vehicle,
	}

	for i, t := range domain.PointTypes {
		if a.cursors[i] >= a.counts[i] {
			continue
		}
		batch := a.policy.BatchSize(i)
		window := domain.Window{Offset: a.cursors[i], Limit: batch}

		switch t {
		case domain.PointTypeLocation:
			locs, err := a.store.LoadLocations(ctx, a.measurement.ID, window.Offset, window.Limit)
			if err != nil {
				return nil, fmt.Errorf("loading locations of measurement %d at %d: %w", a.measurement.ID, window.Offset, err)
			}
			s.Locations = locs
		default:
			pts, err := a.store.LoadPoints(ctx, a.measurement.ID, t, window.Offset, window.Limit)
			if err != nil {
				return nil, fmt.Errorf("loading %s points of measurement %d at %d: %w", t, a.measurement.ID, window.Offset, err)
			}
			switch t {
			case domain.PointTypeAcceleration:
				s.Accelerations = pts
			case domain.PointTypeRotation:
				s.Rotations = pts
			case domain.PointTypeDirection:
				s.Directions = pts
			}
		}

		s.Windows[i] = window
		a.cursors[i] += batch
	}

	a.emitted = true
	return s, nil
}

func (a *Assembler) exhausted() bool {
	for i := range a.counts {
		if a.cursors[i] < a.counts[i] {
			return false
		}
	}
	return true
}
