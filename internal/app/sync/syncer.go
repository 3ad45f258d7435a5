package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	stdsync "sync"
	"time"

	"github.com/movetrack/tracksync/internal/domain"
	"github.com/movetrack/tracksync/internal/ports"
	"github.com/movetrack/tracksync/internal/serialization"
)

// ErrAlreadyRunning is returned by Run when a sync pass is in flight.
var ErrAlreadyRunning = errors.New("sync: run already in progress")

const defaultTokenTimeout = time.Second

// Config carries the collaborators a Syncer needs. Store and Transport are
// required; Tokens may be nil when the remote endpoint is unauthenticated.
type Config struct {
	Store     ports.PointStore
	Transport ports.Transport
	Tokens    ports.TokenProvider
	Policy    ports.Policy
	Logger    *log.Logger
}

// Syncer drives one sync pass at a time: enumerate finished measurements,
// slice each one, upload the slices, and retire the uploaded data. Failures
// on a single measurement are recorded in the Result and the run moves on;
// authentication failures abort the whole run because every later upload
// would fail the same way.
type Syncer struct {
	cfg      Config
	registry *Registry

	mu      stdsync.Mutex
	running bool
}

func New(cfg Config) (*Syncer, error) {
	if cfg.Store == nil {
		return nil, errors.New("sync: point store is required")
	}
	if cfg.Transport == nil {
		return nil, errors.New("sync: transport is required")
	}
	if cfg.Policy.TokenTimeout <= 0 {
		cfg.Policy.TokenTimeout = defaultTokenTimeout
	}
	if cfg.Policy.Format == "" {
		cfg.Policy.Format = ports.FormatJSON
	}
	if cfg.Policy.Format != ports.FormatJSON && cfg.Policy.Format != ports.FormatBinary {
		return nil, fmt.Errorf("sync: unknown payload format %q", cfg.Policy.Format)
	}
	for i := range domain.PointTypes {
		if cfg.Policy.BatchSize(i) <= 0 {
			return nil, fmt.Errorf("sync: batch size for %s must be positive", domain.PointTypes[i])
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Syncer{cfg: cfg, registry: NewRegistry(cfg.Logger)}, nil
}

// Subscribe registers a listener for events of subsequent runs.
func (s *Syncer) Subscribe(l ports.ProgressListener) {
	s.registry.Subscribe(l)
}

// Running reports whether a sync pass is currently in flight.
func (s *Syncer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Run executes one full sync pass and reports its outcome. The returned
// Result is non-nil even when err is non-nil, so callers always see the
// partial progress made before the run died.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	res := &Result{}

	// Listeners see a full started/finished pair for every run, aborted
	// ones included, with the error fanned out in between.
	defer s.registry.notifyFinished()

	// Fail fast on a broken credential before touching the store.
	if _, err := s.token(ctx); err != nil {
		res.record(err)
		s.registry.notifyStarted(0)
		s.registry.notifyTransmitError("acquiring auth token", err)
		return res, fmt.Errorf("acquiring initial token: %w", err)
	}

	measurements, err := s.cfg.Store.ListMeasurements(ctx, domain.StatusFinished)
	if err != nil {
		res.record(err)
		s.registry.notifyStarted(0)
		s.registry.notifyReadError("listing finished measurements", err)
		return res, fmt.Errorf("listing finished measurements: %w", err)
	}

	assemblers := make([]*Assembler, 0, len(measurements))
	var total int64
	for _, m := range measurements {
		a, err := NewAssembler(ctx, s.cfg.Store, m, s.cfg.Policy)
		if err != nil {
			res.record(err)
			s.registry.notifyStarted(0)
			s.registry.notifyReadError(fmt.Sprintf("counting points of measurement %d", m.ID), err)
			return res, err
		}
		assemblers = append(assemblers, a)
		total += a.Total()
	}

	s.registry.notifyStarted(total)

	for i, m := range measurements {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.syncMeasurement(ctx, m, assemblers[i], res); err != nil {
			if isAuthError(err) {
				return res, fmt.Errorf("syncing measurement %d: %w", m.ID, err)
			}
			s.cfg.Logger.Printf("ERROR: measurement %d not synced: %v", m.ID, err)
			continue
		}
		res.MeasurementsSynced++
	}

	return res, nil
}

// syncMeasurement uploads every slice of m and retires the measurement on
// full success. Any error aborts the measurement; windows already deleted
// stay deleted, and the next run resumes with the remaining points.
func (s *Syncer) syncMeasurement(ctx context.Context, m domain.Measurement, a *Assembler, res *Result) error {
	for {
		slice, err := a.Next(ctx)
		if err != nil {
			res.record(err)
			s.registry.notifyReadError(fmt.Sprintf("reading measurement %d", m.ID), err)
			return err
		}
		if slice == nil {
			break
		}

		// A window that only covers positions retired by an earlier run
		// carries no points; nothing to transmit or retire. Header-only
		// slices for empty measurements have no windows and still go out.
		if slice.Empty() && !windowsEmpty(slice) {
			continue
		}

		token, err := s.token(ctx)
		if err != nil {
			res.record(err)
			s.registry.notifyTransmitError(fmt.Sprintf("refreshing token for measurement %d", m.ID), err)
			return err
		}

		payload, err := s.encode(slice)
		if err != nil {
			res.record(err)
			s.registry.notifyReadError(fmt.Sprintf("encoding measurement %d", m.ID), err)
			return err
		}

		bytes, err := s.cfg.Transport.Send(ctx, token, payload)
		if err != nil {
			res.record(err)
			s.registry.notifyTransmitError(fmt.Sprintf("uploading measurement %d", m.ID), err)
			return err
		}

		res.PointsUploaded += slice.PointCount()
		res.BytesUploaded += bytes
		s.registry.notifyProgress(ports.Progress{
			MeasurementID: m.ID,
			Points:        slice.PointCount(),
			Bytes:         bytes,
		})

		for i, t := range domain.PointTypes {
			w := slice.Windows[i]
			if w.Empty() {
				continue
			}
			if _, err := s.cfg.Store.DeletePoints(ctx, m.ID, t, w.Offset, w.Limit); err != nil {
				res.record(err)
				s.registry.notifyReadError(fmt.Sprintf("retiring %s points of measurement %d", t, m.ID), err)
				return err
			}
		}
	}

	if s.cfg.Policy.DeleteOnSuccess {
		if _, err := s.cfg.Store.DeleteMeasurement(ctx, m.ID); err != nil {
			res.record(err)
			return err
		}
		return nil
	}
	if err := s.cfg.Store.SetStatus(ctx, m.ID, domain.StatusSynced); err != nil {
		res.record(err)
		return err
	}
	return nil
}

// token fetches a fresh credential under the configured deadline. A nil
// provider means the endpoint accepts anonymous uploads.
func (s *Syncer) token(ctx context.Context) (string, error) {
	if s.cfg.Tokens == nil {
		return "", nil
	}
	tctx, cancel := context.WithTimeout(ctx, s.cfg.Policy.TokenTimeout)
	defer cancel()
	token, err := s.cfg.Tokens.Token(tctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: token fetch timed out after %s", ports.ErrAuthExpired, s.cfg.Policy.TokenTimeout)
		}
		return "", err
	}
	return token, nil
}

func (s *Syncer) encode(slice *domain.Slice) ([]byte, error) {
	if s.cfg.Policy.Format == ports.FormatBinary {
		return serialization.EncodeBinaryCompressed(slice)
	}
	return serialization.EncodeJSON(slice)
}

func windowsEmpty(slice *domain.Slice) bool {
	for _, w := range slice.Windows {
		if !w.Empty() {
			return false
		}
	}
	return true
}

func isAuthError(err error) bool {
	return errors.Is(err, ports.ErrUnauthorized) ||
		errors.Is(err, ports.ErrAuthRequired) ||
		errors.Is(err, ports.ErrAuthExpired)
}
