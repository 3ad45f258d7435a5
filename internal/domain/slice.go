package domain

// Window is the half-open point range [Offset, Offset+Limit) a slice drew
// from one channel family. Limit is the configured batch size, not the
// number of points actually returned; a short page still occupies the
// whole window.
type Window struct {
	Offset int64
	Limit  int64
}

// Empty reports whether the window covers no positions at all.
func (w Window) Empty() bool { return w.Limit == 0 }

// Slice is one bounded, ready-to-upload batch drawn from a measurement.
// It is ephemeral: assembled for a single upload attempt and discarded
// once its windows are deleted from the store.
type Slice struct {
	MeasurementID int64
	DeviceID      string
	Vehicle       string

	Locations     []GeoLocation
	Accelerations []Point3D
	Rotations     []Point3D
	Directions    []Point3D

	// Windows records the cursor range used per point type, in PointTypes
	// order. Deletion after a successful upload covers exactly these ranges.
	Windows [4]Window
}

// PointCount returns the number of points of all families carried by the slice.
func (s *Slice) PointCount() int64 {
	return int64(len(s.Locations) + len(s.Accelerations) + len(s.Rotations) + len(s.Directions))
}

// Empty reports whether the slice carries no points, only header metadata.
func (s *Slice) Empty() bool { return s.PointCount() == 0 }
