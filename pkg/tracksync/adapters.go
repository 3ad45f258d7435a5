package tracksync

import (
	"context"
	"sync"
)

// ListenerFuncs bundles optional callbacks into a full ProgressListener so
// callers can observe a run without defining a struct. Nil callbacks are
// simply skipped.
type ListenerFuncs struct {
	Started       func(totalPoints int64)
	Progressed    func(p Progress)
	ReadError     func(msg string, cause error)
	TransmitError func(msg string, cause error)
	Finished      func()
}

// NewCallbackListener adapts a ListenerFuncs bundle into a ProgressListener.
func NewCallbackListener(fns ListenerFuncs) ProgressListener {
	return &callbackListener{fns: fns}
}

type callbackListener struct {
	fns ListenerFuncs
}

func (l *callbackListener) OnStarted(totalPoints int64) {
	if l.fns.Started != nil {
		l.fns.Started(totalPoints)
	}
}

func (l *callbackListener) OnProgress(p Progress) {
	if l.fns.Progressed != nil {
		l.fns.Progressed(p)
	}
}

func (l *callbackListener) OnReadError(msg string, cause error) {
	if l.fns.ReadError != nil {
		l.fns.ReadError(msg, cause)
	}
}

func (l *callbackListener) OnTransmitError(msg string, cause error) {
	if l.fns.TransmitError != nil {
		l.fns.TransmitError(msg, cause)
	}
}

func (l *callbackListener) OnFinished() {
	if l.fns.Finished != nil {
		l.fns.Finished()
	}
}

// NewChannelListener exposes progress events via a channel; it returns the
// listener, the read-only channel, and a close function that the caller
// should invoke during shutdown. Error and lifecycle events are not
// forwarded, only per-slice progress.
func NewChannelListener(buffer int) (ProgressListener, <-chan Progress, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Progress, buffer)
	l := &channelListener{ch: ch}
	return l, ch, func() { l.close() }
}

type channelListener struct {
	mu     sync.Mutex
	ch     chan Progress
	closed bool
}

func (l *channelListener) OnStarted(int64)               {}
func (l *channelListener) OnReadError(string, error)     {}
func (l *channelListener) OnTransmitError(string, error) {}
func (l *channelListener) OnFinished()                   {}

// OnProgress holds the mutex across the send so close cannot slip in
// between the closed check and the channel write. Events arriving after
// close are dropped; close waits for an in-flight delivery.
func (l *channelListener) OnProgress(p Progress) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.ch <- p
}

func (l *channelListener) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		close(l.ch)
	}
}

// TransportFunc adapts a plain function into a Transport.
type TransportFunc func(ctx context.Context, token string, payload []byte) (int64, error)

func (f TransportFunc) Send(ctx context.Context, token string, payload []byte) (int64, error) {
	return f(ctx, token, payload)
}
