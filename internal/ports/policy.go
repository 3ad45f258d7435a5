package ports

import "time"

// Payload formats supported by the serialization layer.
const (
	FormatJSON   = "json"
	FormatBinary = "binary"
)

// Policy tunes one sync run. The four batch sizes are independent so a
// caller can trade network-payload size against memory pressure per
// channel density.
type Policy struct {
	LocationBatchSize     int64         `yaml:"location_batch_size"`
	AccelerationBatchSize int64         `yaml:"acceleration_batch_size"`
	RotationBatchSize     int64         `yaml:"rotation_batch_size"`
	DirectionBatchSize    int64         `yaml:"direction_batch_size"`
	TokenTimeout          time.Duration `yaml:"token_timeout"`
	Format                string        `yaml:"format"` // "json" or "binary"

	// DeleteOnSuccess removes a fully uploaded measurement from the store
	// instead of leaving it behind in SYNCED state.
	DeleteOnSuccess bool `yaml:"delete_on_success"`
}

// BatchSize returns the configured batch size for one channel family,
// indexed in domain.PointTypes order.
func (p Policy) BatchSize(typeIndex int) int64 {
	switch typeIndex {
	case 0:
		return p.LocationBatchSize
	case 1:
		return p.AccelerationBatchSize
	case 2:
		return p.RotationBatchSize
	default:
		return p.DirectionBatchSize
	}
}
