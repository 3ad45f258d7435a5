package tracksync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/movetrack/tracksync/internal/adapters/observability"
	"github.com/movetrack/tracksync/internal/adapters/pgstore"
	"github.com/movetrack/tracksync/internal/adapters/uplink"
	"github.com/movetrack/tracksync/internal/app/sync"
)

// ErrAlreadyRunning is returned when a sync pass is requested while one is
// still in flight.
var ErrAlreadyRunning = sync.ErrAlreadyRunning

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	store     PointStore
	transport Transport
	tokens    TokenProvider
	listeners []ProgressListener
	logger    *log.Logger
}

// WithStore injects a custom point store (SQLite, in-memory, remote API, etc.).
func WithStore(s PointStore) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.store = s
	}
}

// WithTransport injects a custom transport so slices can be shipped over
// anything that accepts a byte payload.
func WithTransport(t Transport) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.transport = t
	}
}

// WithTokenProvider overrides the credential source derived from the auth
// configuration.
func WithTokenProvider(tp TokenProvider) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.tokens = tp
	}
}

// WithListener subscribes a progress listener. May be given multiple times.
func WithListener(l ProgressListener) RuntimeOption {
	return func(o *runtimeOverrides) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger *log.Logger) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.logger = logger
	}
}

// Runtime wires up the store → assembler → transport pipeline and exposes
// simple lifecycle hooks for embedding the sync loop inside any Go service.
type Runtime struct {
	cfg        *Config
	syncer     *sync.Syncer
	db         *sql.DB
	logger     *log.Logger
	metricsSrv *http.Server
}

// NewRuntime bootstraps the default adapters (Postgres point store, HTTP
// transport, login-based token provider, Prometheus progress listener).
// Callers can use RuntimeOption values to override any dependency.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	logger := overrides.logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	var (
		db    *sql.DB
		store PointStore
		err   error
	)
	if overrides.store != nil {
		store = overrides.store
	} else {
		if cfg.Postgres.ConnString == "" {
			return nil, fmt.Errorf("postgres.conn_string is required when no store is injected")
		}
		db, err = sql.Open("postgres", cfg.Postgres.ConnString)
		if err != nil {
			return nil, err
		}
		store = pgstore.New(db)
	}

	transport := overrides.transport
	if transport == nil {
		transport, err = uplink.NewHTTPTransport(cfg.Server.Endpoint, cfg.Policy.Format, cfg.Server.Timeout)
		if err != nil {
			return nil, err
		}
	}

	tokens := overrides.tokens
	if tokens == nil {
		switch {
		case cfg.Auth.Token != "":
			tokens = uplink.StaticToken(cfg.Auth.Token)
		case cfg.Auth.Username != "":
			tokens = uplink.NewLoginProvider(cfg.Server.Endpoint, cfg.Auth.Username, cfg.Auth.Password, cfg.Policy.TokenTimeout)
		}
	}

	syncer, err := sync.New(sync.Config{
		Store:     store,
		Transport: transport,
		Tokens:    tokens,
		Policy:    cfg.Policy,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	if len(overrides.listeners) > 0 {
		for _, l := range overrides.listeners {
			syncer.Subscribe(l)
		}
	} else {
		syncer.Subscribe(observability.NewPromListener())
	}

	return &Runtime{
		cfg:    cfg,
		syncer: syncer,
		db:     db,
		logger: logger,
	}, nil
}

// Subscribe adds a progress listener for subsequent runs.
func (r *Runtime) Subscribe(l ProgressListener) {
	r.syncer.Subscribe(l)
}

// RunOnce executes a single sync pass and reports its outcome.
func (r *Runtime) RunOnce(ctx context.Context) (*Result, error) {
	return r.syncer.Run(ctx)
}

// Run starts the metrics server, performs an immediate sync pass, and then
// syncs on the configured interval until the context is cancelled. A zero
// interval means a single pass. Errors of individual passes are logged and
// the loop keeps going; only context cancellation ends it.
func (r *Runtime) Run(ctx context.Context) error {
	r.startMetrics()

	r.runPass(ctx)

	interval := r.cfg.Sync.Interval
	if interval <= 0 {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return r.Shutdown(shutdownCtx)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return r.Shutdown(shutdownCtx)
		case <-ticker.C:
			r.runPass(ctx)
		}
	}
}

func (r *Runtime) runPass(ctx context.Context) {
	res, err := r.syncer.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
	case err != nil:
		r.logger.Printf("ERROR: sync pass failed: %v", err)
	case res.HasError():
		r.logger.Printf("WARNING: sync pass finished with errors: %+v", *res)
	default:
		r.logger.Printf("sync pass complete: %d measurements, %d points, %d bytes",
			res.MeasurementsSynced, res.PointsUploaded, res.BytesUploaded)
	}
}

// Shutdown stops the metrics server and closes the database connection.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Runtime) startMetrics() {
	if r.cfg.Metrics.Addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Printf("metrics server exited: %v", err)
		}
	}()
}
