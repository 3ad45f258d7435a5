package domain

// PointType identifies one of the four channel families a measurement records.
type PointType string

const (
	PointTypeLocation     PointType = "location"
	PointTypeAcceleration PointType = "acceleration"
	PointTypeRotation     PointType = "rotation"
	PointTypeDirection    PointType = "direction"
)

// PointTypes lists all channel families in upload order.
var PointTypes = [4]PointType{
	PointTypeLocation,
	PointTypeAcceleration,
	PointTypeRotation,
	PointTypeDirection,
}

// GeoLocation is a single GNSS fix. Timestamp is in milliseconds since epoch.
// Wire field names are owned by the serialization package.
type GeoLocation struct {
	Timestamp int64
	Latitude  float64
	Longitude float64
	Speed     float64
	Accuracy  int32
}

// Point3D is one sample from a three-axis sensor (accelerometer, gyroscope
// or magnetometer). Points are immutable once written.
type Point3D struct {
	Timestamp int64
	X         float64
	Y         float64
	Z         float64
}
