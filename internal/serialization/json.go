package serialization

import (
	"encoding/json"

	"github.com/movetrack/tracksync/internal/domain"
)

// Wire shapes for the legacy JSON payload. The collector expects the
// original column names per channel family, so every family gets its own
// field spelling instead of a shared x/y/z struct.
type jsonSlice struct {
	ID                 int64              `json:"id"`
	DeviceID           string             `json:"deviceId"`
	Vehicle            string             `json:"vehicle"`
	GpsPoints          []jsonLocation     `json:"gpsPoints"`
	AccelerationPoints []jsonAcceleration `json:"accelerationPoints"`
	RotationPoints     []jsonRotation     `json:"rotationPoints"`
	DirectionPoints    []jsonDirection    `json:"directionPoints"`
}

type jsonLocation struct {
	Timestamp int64   `json:"gpsTime"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Speed     float64 `json:"speed"`
	Accuracy  int32   `json:"accuracy"`
}

type jsonAcceleration struct {
	Timestamp int64   `json:"time"`
	Ax        float64 `json:"ax"`
	Ay        float64 `json:"ay"`
	Az        float64 `json:"az"`
}

type jsonRotation struct {
	Timestamp int64   `json:"time"`
	Rx        float64 `json:"rx"`
	Ry        float64 `json:"ry"`
	Rz        float64 `json:"rz"`
}

type jsonDirection struct {
	Timestamp int64   `json:"time"`
	Mx        float64 `json:"mx"`
	My        float64 `json:"my"`
	Mz        float64 `json:"mz"`
}

// EncodeJSON renders a measurement slice in the legacy adapter's wire
// format. Exhausted families encode as empty arrays, never null.
func EncodeJSON(s *domain.Slice) ([]byte, error) {
	out := jsonSlice{
		ID:                 s.MeasurementID,
		DeviceID:           s.DeviceID,
		Vehicle:            s.Vehicle,
		GpsPoints:          make([]jsonLocation, 0, len(s.Locations)),
		AccelerationPoints: make([]jsonAcceleration, 0, len(s.Accelerations)),
		RotationPoints:     make([]jsonRotation, 0, len(s.Rotations)),
		DirectionPoints:    make([]jsonDirection, 0, len(s.Directions)),
	}

	for _, l := range s.Locations {
		out.GpsPoints = append(out.GpsPoints, jsonLocation{
			Timestamp: l.Timestamp,
			Lat:       l.Latitude,
			Lon:       l.Longitude,
			Speed:     l.Speed,
			Accuracy:  l.Accuracy,
		})
	}
	for _, p := range s.Accelerations {
		out.AccelerationPoints = append(out.AccelerationPoints, jsonAcceleration{
			Timestamp: p.Timestamp, Ax: p.X, Ay: p.Y, Az: p.Z,
		})
	}
	for _, p := range s.Rotations {
		out.RotationPoints = append(out.RotationPoints, jsonRotation{
			Timestamp: p.Timestamp, Rx: p.X, Ry: p.Y, Rz: p.Z,
		})
	}
	for _, p := range s.Directions {
		out.DirectionPoints = append(out.DirectionPoints, jsonDirection{
			Timestamp: p.Timestamp, Mx: p.X, My: p.Y, Mz: p.Z,
		})
	}

	return json.Marshal(out)
}
