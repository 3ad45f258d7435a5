package sync

import (
	"io"
	"log"
	"testing"

	"github.com/movetrack/tracksync/internal/ports"
)

type recordingListener struct {
	started   []int64
	progress  []ports.Progress
	readErrs  []string
	transmits []string
	finished  int
	panicOn   string
}

var _ ports.ProgressListener = (*recordingListener)(nil)

func (l *recordingListener) OnStarted(total int64) {
	if l.panicOn == "started" {
		panic("listener failure")
	}
	l.started = append(l.started, total)
}

func (l *recordingListener) OnProgress(p ports.Progress) {
	if l.panicOn == "progress" {
		panic("listener failure")
	}
	l.progress = append(l.progress, p)
}

func (l *recordingListener) OnReadError(msg string, cause error) {
	l.readErrs = append(l.readErrs, msg)
}

func (l *recordingListener) OnTransmitError(msg string, cause error) {
	l.transmits = append(l.transmits, msg)
}

func (l *recordingListener) OnFinished() { l.finished++ }

func TestRegistryFanOut(t *testing.T) {
	r := NewRegistry(log.New(io.Discard, "", 0))
	first := &recordingListener{}
	second := &recordingListener{}
	r.Subscribe(first)
	r.Subscribe(second)
	r.Subscribe(nil) // ignored

	r.notifyStarted(42)
	r.notifyProgress(ports.Progress{MeasurementID: 1, Points: 10, Bytes: 99})
	r.notifyFinished()

	for i, l := range []*recordingListener{first, second} {
		if len(l.started) != 1 || l.started[0] != 42 {
			t.Errorf("listener %d started = %v, want [42]", i, l.started)
		}
		if len(l.progress) != 1 || l.progress[0].Points != 10 {
			t.Errorf("listener %d progress = %v", i, l.progress)
		}
		if l.finished != 1 {
			t.Errorf("listener %d finished %d times, want 1", i, l.finished)
		}
	}
}

func TestRegistryIsolatesPanickingListener(t *testing.T) {
	r := NewRegistry(log.New(io.Discard, "", 0))
	bad := &recordingListener{panicOn: "progress"}
	good := &recordingListener{}
	r.Subscribe(bad)
	r.Subscribe(good)

	r.notifyProgress(ports.Progress{MeasurementID: 7, Points: 3})

	if len(good.progress) != 1 || good.progress[0].MeasurementID != 7 {
		t.Fatalf("healthy listener missed the event after a peer panicked: %v", good.progress)
	}
}
