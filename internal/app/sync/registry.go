package sync

import (
	"log"
	stdsync "sync"

	"github.com/movetrack/tracksync/internal/ports"
)

// Registry fans sync events out to subscribed listeners. It is owned by one
// Syncer, not shared process-wide. Listeners are invoked synchronously in
// subscription order; a panicking listener is logged and skipped so the
// remaining listeners still receive the event.
type Registry struct {
	mu        stdsync.Mutex
	listeners []ports.ProgressListener
	logger    *log.Logger
}

func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{logger: logger}
}

func (r *Registry) Subscribe(l ports.ProgressListener) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

func (r *Registry) notifyStarted(totalPoints int64) {
	r.each(func(l ports.ProgressListener) { l.OnStarted(totalPoints) })
}

func (r *Registry) notifyProgress(p ports.Progress) {
	r.each(func(l ports.ProgressListener) { l.OnProgress(p) })
}

func (r *Registry) notifyReadError(msg string, cause error) {
	r.each(func(l ports.ProgressListener) { l.OnReadError(msg, cause) })
}

func (r *Registry) notifyTransmitError(msg string, cause error) {
	r.each(func(l ports.ProgressListener) { l.OnTransmitError(msg, cause) })
}

func (r *Registry) notifyFinished() {
	r.each(func(l ports.ProgressListener) { l.OnFinished() })
}

func (r *Registry) each(fn func(ports.ProgressListener)) {
	r.mu.Lock()
	listeners := make([]ports.ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		r.deliver(fn, l)
	}
}

func (r *Registry) deliver(fn func(ports.ProgressListener), l ports.ProgressListener) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("WARNING: progress listener panicked: %v", rec)
		}
	}()
	fn(l)
}
