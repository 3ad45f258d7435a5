package tracksync

import (
	"context"
	"fmt"
)

// Flow is a convenience builder that lets callers say Conf → From → To
// without touching the underlying hexagonal wiring.
type Flow struct {
	cfg  *Config
	opts []RuntimeOption
}

// FlowOption mutates the Flow after configuration is loaded.
type FlowOption func(*Flow)

// FromOption configures the store side of the pipeline.
type FromOption func(*Flow)

// ToOption configures the transport/listener side of the pipeline.
type ToOption func(*Flow)

// Conf loads YAML from disk, applies FlowOption values, and returns a Flow builder.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig bootstraps a Flow from an in-memory Config.
func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	f := &Flow{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Config returns the underlying configuration so callers can tweak it before building a runtime.
func (f *Flow) Config() *Config {
	if f == nil {
		return nil
	}
	return f.cfg
}

// Options appends raw RuntimeOption values to the builder for advanced scenarios.
func (f *Flow) Options(opts ...RuntimeOption) *Flow {
	if f == nil {
		return nil
	}
	f.appendOptions(opts...)
	return f
}

// From records store-side overrides (point store, logger).
func (f *Flow) From(opts ...FromOption) *Flow {
	if f == nil {
		return nil
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// To records transport-side overrides and builds a Runtime ready to run.
func (f *Flow) To(opts ...ToOption) (*Runtime, error) {
	if f == nil {
		return nil, fmt.Errorf("flow is nil")
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return NewRuntime(f.cfg, f.opts...)
}

// Run is a shortcut for To + runtime.Run.
func (f *Flow) Run(ctx context.Context, opts ...ToOption) error {
	rt, err := f.To(opts...)
	if err != nil {
		return err
	}
	return rt.Run(ctx)
}

// WithFlowOptions appends RuntimeOption values during Conf.
func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(opts...)
		}
	}
}

// FromStore injects a custom point store (SQLite, in-memory, remote API, etc.).
func FromStore(s PointStore) FromOption {
	return func(f *Flow) {
		if f != nil && s != nil {
			f.appendOptions(WithStore(s))
		}
	}
}

// ToTransport injects a custom transport implementation.
func ToTransport(t Transport) ToOption {
	return func(f *Flow) {
		if f != nil && t != nil {
			f.appendOptions(WithTransport(t))
		}
	}
}

// ToTokens overrides the credential source derived from the auth configuration.
func ToTokens(tp TokenProvider) ToOption {
	return func(f *Flow) {
		if f != nil && tp != nil {
			f.appendOptions(WithTokenProvider(tp))
		}
	}
}

// ToListener subscribes a progress listener.
func ToListener(l ProgressListener) ToOption {
	return func(f *Flow) {
		if f != nil && l != nil {
			f.appendOptions(WithListener(l))
		}
	}
}

// ToCallback subscribes a listener built from simple callback functions.
func ToCallback(fns ListenerFuncs) ToOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(WithListener(NewCallbackListener(fns)))
		}
	}
}

func (f *Flow) appendOptions(opts ...RuntimeOption) {
	for _, opt := range opts {
		if opt != nil {
			f.opts = append(f.opts, opt)
		}
	}
}
