package tracksync

import (
	"github.com/movetrack/tracksync/internal/app/sync"
	"github.com/movetrack/tracksync/internal/domain"
	"github.com/movetrack/tracksync/internal/ports"
)

// Measurement is one recorded track with its lifecycle status.
type Measurement = domain.Measurement

// MeasurementStatus is the lifecycle state of a measurement.
type MeasurementStatus = domain.MeasurementStatus

// Lifecycle states a measurement moves through.
const (
	StatusOpen     = domain.StatusOpen
	StatusFinished = domain.StatusFinished
	StatusSynced   = domain.StatusSynced
)

// GeoLocation is one GNSS fix captured during a measurement.
type GeoLocation = domain.GeoLocation

// Point3D is one three-axis sensor sample (acceleration, rotation, direction).
type Point3D = domain.Point3D

// PointType names one of the four point families of a measurement.
type PointType = domain.PointType

// The four point families, in upload order.
const (
	PointTypeLocation     = domain.PointTypeLocation
	PointTypeAcceleration = domain.PointTypeAcceleration
	PointTypeRotation     = domain.PointTypeRotation
	PointTypeDirection    = domain.PointTypeDirection
)

// Slice is one bounded upload batch drawn from a measurement.
type Slice = domain.Slice

// PointStore is the persistence boundary the sync pipeline reads from.
type PointStore = ports.PointStore

// Transport delivers encoded slices to the remote collector.
type Transport = ports.Transport

// TokenProvider supplies the credential attached to each upload.
type TokenProvider = ports.TokenProvider

// ProgressListener observes a sync run.
type ProgressListener = ports.ProgressListener

// Progress describes one uploaded slice.
type Progress = ports.Progress

// Policy tunes batch sizes, payload format, and retirement behavior.
type Policy = ports.Policy

// Result summarizes one sync run.
type Result = sync.Result

// Payload formats accepted by Policy.Format.
const (
	FormatJSON   = ports.FormatJSON
	FormatBinary = ports.FormatBinary
)
