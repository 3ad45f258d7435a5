package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/movetrack/tracksync/internal/ports"
)

func TestPromListenerMetrics(t *testing.T) {
	origReg := prometheus.DefaultRegisterer
	origGatherer := prometheus.DefaultGatherer
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = origReg
		prometheus.DefaultGatherer = origGatherer
	})

	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg

	l := NewPromListener()

	l.OnStarted(250)
	if got := testutil.ToFloat64(l.gauges["tracksync_sync_running"]); got != 1 {
		t.Fatalf("expected running gauge 1, got %f", got)
	}
	if got := testutil.ToFloat64(l.gauges["tracksync_points_pending"]); got != 250 {
		t.Fatalf("expected pending gauge 250, got %f", got)
	}

	l.OnProgress(ports.Progress{MeasurementID: 1, Points: 100, Bytes: 2048})
	if got := testutil.ToFloat64(l.counters["tracksync_points_uploaded_total"]); got != 100 {
		t.Fatalf("expected points counter 100, got %f", got)
	}
	if got := testutil.ToFloat64(l.counters["tracksync_bytes_uploaded_total"]); got != 2048 {
		t.Fatalf("expected bytes counter 2048, got %f", got)
	}
	if got := testutil.ToFloat64(l.gauges["tracksync_points_pending"]); got != 150 {
		t.Fatalf("expected pending gauge 150 after progress, got %f", got)
	}

	l.OnTransmitError("upload failed", errors.New("boom"))
	if got := testutil.ToFloat64(l.counters["tracksync_transmit_errors_total"]); got != 1 {
		t.Fatalf("expected transmit error counter 1, got %f", got)
	}

	l.OnReadError("store failed", errors.New("boom"))
	if got := testutil.ToFloat64(l.counters["tracksync_read_errors_total"]); got != 1 {
		t.Fatalf("expected read error counter 1, got %f", got)
	}

	hCollector := l.histos["tracksync_slice_points"].(prometheus.Collector)
	if samples := testutil.CollectAndCount(hCollector); samples != 1 {
		t.Fatalf("expected slice histogram to record 1 sample, got %d", samples)
	}

	l.OnFinished()
	if got := testutil.ToFloat64(l.gauges["tracksync_sync_running"]); got != 0 {
		t.Fatalf("expected running gauge 0 after finish, got %f", got)
	}
}
