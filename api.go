package tracksync

import (
	"log"

	base "github.com/movetrack/tracksync/pkg/tracksync"
)

// Re-exported errors for convenience.
var (
	ErrAlreadyRunning = base.ErrAlreadyRunning
)

// Type aliases so consumers can import github.com/movetrack/tracksync directly.
type (
	Config            = base.Config
	DeviceConfig      = base.DeviceConfig
	ServerConfig      = base.ServerConfig
	AuthConfig        = base.AuthConfig
	SyncConfig        = base.SyncConfig
	PostgresConfig    = base.PostgresConfig
	MetricsConfig     = base.MetricsConfig
	Policy            = base.Policy
	Flow              = base.Flow
	FlowOption        = base.FlowOption
	FromOption        = base.FromOption
	ToOption          = base.ToOption
	Runtime           = base.Runtime
	RuntimeOption     = base.RuntimeOption
	Result            = base.Result
	Measurement       = base.Measurement
	MeasurementStatus = base.MeasurementStatus
	GeoLocation       = base.GeoLocation
	Point3D           = base.Point3D
	PointType         = base.PointType
	Slice             = base.Slice
	PointStore        = base.PointStore
	Transport         = base.Transport
	TransportFunc     = base.TransportFunc
	TokenProvider     = base.TokenProvider
	ProgressListener  = base.ProgressListener
	ListenerFuncs     = base.ListenerFuncs
	Progress          = base.Progress
	Recorder          = base.Recorder
	Recording         = base.Recording
)

// Lifecycle states and point families.
const (
	StatusOpen     = base.StatusOpen
	StatusFinished = base.StatusFinished
	StatusSynced   = base.StatusSynced

	PointTypeLocation     = base.PointTypeLocation
	PointTypeAcceleration = base.PointTypeAcceleration
	PointTypeRotation     = base.PointTypeRotation
	PointTypeDirection    = base.PointTypeDirection

	FormatJSON   = base.FormatJSON
	FormatBinary = base.FormatBinary
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func FromStore(s PointStore) FromOption {
	return base.FromStore(s)
}

func ToTransport(t Transport) ToOption {
	return base.ToTransport(t)
}

func ToTokens(tp TokenProvider) ToOption {
	return base.ToTokens(tp)
}

func ToListener(l ProgressListener) ToOption {
	return base.ToListener(l)
}

func ToCallback(fns ListenerFuncs) ToOption {
	return base.ToCallback(fns)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithStore(s PointStore) RuntimeOption {
	return base.WithStore(s)
}

func WithTransport(t Transport) RuntimeOption {
	return base.WithTransport(t)
}

func WithTokenProvider(tp TokenProvider) RuntimeOption {
	return base.WithTokenProvider(tp)
}

func WithListener(l ProgressListener) RuntimeOption {
	return base.WithListener(l)
}

func WithLogger(logger *log.Logger) RuntimeOption {
	return base.WithLogger(logger)
}

// Listener adapters.
func NewCallbackListener(fns ListenerFuncs) ProgressListener {
	return base.NewCallbackListener(fns)
}

func NewChannelListener(buffer int) (ProgressListener, <-chan Progress, func()) {
	return base.NewChannelListener(buffer)
}

// Recorder for embedding capture + sync in one process.
func NewRecorder(deviceID string) (*Recorder, error) {
	return base.NewRecorder(deviceID)
}
