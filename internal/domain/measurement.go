package domain

// MeasurementStatus tracks a measurement through its capture and upload lifecycle.
type MeasurementStatus string

const (
	// StatusOpen marks a measurement that is still capturing points.
	StatusOpen MeasurementStatus = "OPEN"
	// StatusFinished marks a measurement that stopped capturing and is eligible for upload.
	StatusFinished MeasurementStatus = "FINISHED"
	// StatusSynced marks a measurement whose points were all acknowledged by the collector.
	StatusSynced MeasurementStatus = "SYNCED"
)

// Valid reports whether s is one of the known lifecycle states.
func (s MeasurementStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusFinished, StatusSynced:
		return true
	}
	return false
}

// Measurement is one continuous capture session and the owner of its points.
// At most one measurement per device is OPEN at a time; identifiers are
// assigned monotonically by the store.
type Measurement struct {
	ID       int64
	DeviceID string
	Vehicle  string
	Status   MeasurementStatus
}
