package tracksync

import (
	"context"
	"io"
	"log"
	"testing"
)

func TestConfFromConfigRequiresConfig(t *testing.T) {
	if _, err := ConfFromConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestFlowBuildsRuntime(t *testing.T) {
	rec := seedRecorder(t, "device-1", 5)

	var progressed int
	flow, err := ConfFromConfig(testConfig(), WithFlowOptions(WithLogger(log.New(io.Discard, "", 0))))
	if err != nil {
		t.Fatalf("ConfFromConfig: %v", err)
	}

	rt, err := flow.
		From(FromStore(rec.Store())).
		To(
			ToTransport(TransportFunc(func(ctx context.Context, token string, payload []byte) (int64, error) {
				return int64(len(payload)), nil
			})),
			ToCallback(ListenerFuncs{
				Progressed: func(p Progress) { progressed++ },
			}),
		)
	if err != nil {
		t.Fatalf("building runtime: %v", err)
	}

	res, err := rt.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if res.MeasurementsSynced != 1 {
		t.Fatalf("MeasurementsSynced = %d, want 1", res.MeasurementsSynced)
	}
	if progressed != 1 {
		t.Fatalf("callback saw %d progress events, want 1", progressed)
	}
}

func TestFlowConfigAccessor(t *testing.T) {
	cfg := testConfig()
	flow, err := ConfFromConfig(cfg)
	if err != nil {
		t.Fatalf("ConfFromConfig: %v", err)
	}
	if flow.Config() != cfg {
		t.Fatal("Config() does not return the underlying config")
	}

	// Callers may tune the config between Conf and To.
	flow.Config().Policy.Format = FormatBinary
	if cfg.Policy.Format != FormatBinary {
		t.Fatal("config mutation did not stick")
	}
}
