package memstore

import (
	"context"
	"sync"

	"github.com/movetrack/tracksync/internal/domain"
	"github.com/movetrack/tracksync/internal/ports"
)

// MemStore is an in-memory PointStore used by examples and tests. Point
// positions are assigned at append time and never move: deleted entries
// stay behind as tombstones so load windows remain positionally stable
// within a sync run, exactly like a row store with an is_synced flag.
type MemStore struct {
	mu           sync.Mutex
	nextID       int64
	measurements map[int64]*record
}

type record struct {
	m         domain.Measurement
	locations []entry[domain.GeoLocation]
	points    map[domain.PointType][]entry[domain.Point3D]
}

type entry[T any] struct {
	value   T
	deleted bool
}

func New() *MemStore {
	return &MemStore{measurements: make(map[int64]*record)}
}

// CreateMeasurement opens a new capture session and returns its identifier.
func (s *MemStore) CreateMeasurement(deviceID, vehicle string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.measurements[id] = &record{
		m: domain.Measurement{ID: id, DeviceID: deviceID, Vehicle: vehicle, Status: domain.StatusOpen},
		points: map[domain.PointType][]entry[domain.Point3D]{
			domain.PointTypeAcceleration: nil,
			domain.PointTypeRotation:     nil,
			domain.PointTypeDirection:    nil,
		},
	}
	return id
}

// AppendLocations adds GNSS fixes to an open measurement.
func (s *MemStore) AppendLocations(measurementID int64, locations ...domain.GeoLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.measurements[measurementID]
	if !ok {
		return ports.ErrNotFound
	}
	for _, l := range locations {
		rec.locations = append(rec.locations, entry[domain.GeoLocation]{value: l})
	}
	return nil
}

// AppendPoints adds 3D sensor points of one family to an open measurement.
func (s *MemStore) AppendPoints(measurementID int64, t domain.PointType, points ...domain.Point3D) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.measurements[measurementID]
	if !ok {
		return ports.ErrNotFound
	}
	for _, p := range points {
		rec.points[t] = append(rec.points[t], entry[domain.Point3D]{value: p})
	}
	return nil
}

func (s *MemStore) ListMeasurements(ctx context.Context, status domain.MeasurementStatus) ([]domain.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Measurement
	for id := int64(1); id <= s.nextID; id++ {
		rec, ok := s.measurements[id]
		if ok && rec.m.Status == status {
			out = append(out, rec.m)
		}
	}
	return out, nil
}

func (s *MemStore) CountPoints(ctx context.Context, measurementID int64, t domain.PointType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.measurements[measurementID]
	if !ok {
		return 0, ports.ErrNotFound
	}

	// Tombstoned entries still occupy window positions, so they count:
	// a resumed run must sweep its cursors across the retired prefix to
	// reach the tail an earlier run left behind.
	if t == domain.PointTypeLocation {
		return int64(len(rec.locations)), nil
	}
	return int64(len(rec.points[t])), nil
}

func (s *MemStore) LoadLocations(ctx context.Context, measurementID int64, offset, limit int64) ([]domain.GeoLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.measurements[measurementID]
	if !ok {
		return nil, ports.ErrNotFound
	}

	var out []domain.GeoLocation
	for _, e := range window(rec.locations, offset, limit) {
		if !e.deleted {
			out = append(out, e.value)
		}
	}
	return out, nil
}

func (s *MemStore) LoadPoints(ctx context.Context, measurementID int64, t domain.PointType, offset, limit int64) ([]domain.Point3D, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.measurements[measurementID]
	if !ok {
		return nil, ports.ErrNotFound
	}

	var out []domain.Point3D
	for _, e := range window(rec.points[t], offset, limit) {
		if !e.deleted {
			out = append(out, e.value)
		}
	}
	return out, nil
}

func (s *MemStore) DeletePoints(ctx context.Context, measurementID int64, t domain.PointType, offset, limit int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.measurements[measurementID]
	if !ok {
		return 0, ports.ErrNotFound
	}

	var n int64
	if t == domain.PointTypeLocation {
		for i := range window(rec.locations, offset, limit) {
			e := &rec.locations[offset+int64(i)]
			if !e.deleted {
				e.deleted = true
				n++
			}
		}
		return n, nil
	}
	pts := rec.points[t]
	for i := range window(pts, offset, limit) {
		e := &pts[offset+int64(i)]
		if !e.deleted {
			e.deleted = true
			n++
		}
	}
	return n, nil
}

func (s *MemStore) SetStatus(ctx context.Context, measurementID int64, status domain.MeasurementStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.measurements[measurementID]
	if !ok {
		return ports.ErrNotFound
	}
	rec.m.Status = status
	return nil
}

func (s *MemStore) DeleteMeasurement(ctx context.Context, measurementID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.measurements[measurementID]
	if !ok {
		return 0, ports.ErrNotFound
	}

	var n int64
	for _, e := range rec.locations {
		if !e.deleted {
			n++
		}
	}
	for _, pts := range rec.points {
		for _, e := range pts {
			if !e.deleted {
				n++
			}
		}
	}
	delete(s.measurements, measurementID)
	return n, nil
}

// window clamps [offset, offset+limit) against the backing slice.
func window[T any](entries []entry[T], offset, limit int64) []entry[T] {
	if offset < 0 || offset >= int64(len(entries)) || limit <= 0 {
		return nil
	}
	end := offset + limit
	if end > int64(len(entries)) {
		end = int64(len(entries))
	}
	return entries[offset:end]
}

var _ ports.PointStore = (*MemStore)(nil)
