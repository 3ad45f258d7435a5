package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/movetrack/tracksync/internal/domain"
	"github.com/movetrack/tracksync/internal/ports"
)

func seedLocations(t *testing.T, s *MemStore, id int64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.AppendLocations(id, domain.GeoLocation{Timestamp: int64(i)}); err != nil {
			t.Fatalf("append location %d: %v", i, err)
		}
	}
}

func TestMemStoreWindowedLoad(t *testing.T) {
	ctx := context.Background()
	s := New()
	id := s.CreateMeasurement("device-1", "BICYCLE")
	seedLocations(t, s, id, 5)

	count, err := s.CountPoints(ctx, id, domain.PointTypeLocation)
	if err != nil || count != 5 {
		t.Fatalf("expected 5 locations, got %d (%v)", count, err)
	}

	page, err := s.LoadLocations(ctx, id, 2, 2)
	if err != nil {
		t.Fatalf("load window: %v", err)
	}
	if len(page) != 2 || page[0].Timestamp != 2 || page[1].Timestamp != 3 {
		t.Fatalf("unexpected window contents: %+v", page)
	}

	// Past-the-end windows are empty, not an error.
	page, err = s.LoadLocations(ctx, id, 10, 2)
	if err != nil || len(page) != 0 {
		t.Fatalf("expected empty page past the end, got %+v (%v)", page, err)
	}
}

func TestMemStoreDeletionKeepsPositionsStable(t *testing.T) {
	ctx := context.Background()
	s := New()
	id := s.CreateMeasurement("device-1", "CAR")
	seedLocations(t, s, id, 6)

	deleted, err := s.DeletePoints(ctx, id, domain.PointTypeLocation, 0, 2)
	if err != nil || deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d (%v)", deleted, err)
	}

	// The window at offset 2 must still return the original positions 2..3,
	// not shift forward over the deleted entries.
	page, err := s.LoadLocations(ctx, id, 2, 2)
	if err != nil {
		t.Fatalf("load window: %v", err)
	}
	if len(page) != 2 || page[0].Timestamp != 2 {
		t.Fatalf("window shifted after deletion: %+v", page)
	}

	// A window overlapping deleted entries returns a short page.
	page, err = s.LoadLocations(ctx, id, 0, 4)
	if err != nil {
		t.Fatalf("load window: %v", err)
	}
	if len(page) != 2 || page[0].Timestamp != 2 || page[1].Timestamp != 3 {
		t.Fatalf("expected short page over tombstones, got %+v", page)
	}

	// Tombstones keep their window positions, so the positional extent
	// stays at the full row count until DeleteMeasurement.
	count, err := s.CountPoints(ctx, id, domain.PointTypeLocation)
	if err != nil || count != 6 {
		t.Fatalf("expected extent 6 after partial deletion, got %d (%v)", count, err)
	}

	// Deleting the same window again is a no-op.
	deleted, err = s.DeletePoints(ctx, id, domain.PointTypeLocation, 0, 2)
	if err != nil || deleted != 0 {
		t.Fatalf("expected idempotent delete, got %d (%v)", deleted, err)
	}
}

func TestMemStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	id1 := s.CreateMeasurement("device-1", "CAR")
	id2 := s.CreateMeasurement("device-1", "CAR")

	if err := s.SetStatus(ctx, id1, domain.StatusFinished); err != nil {
		t.Fatalf("set status: %v", err)
	}

	finished, err := s.ListMeasurements(ctx, domain.StatusFinished)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(finished) != 1 || finished[0].ID != id1 {
		t.Fatalf("expected only measurement %d finished, got %+v", id1, finished)
	}

	open, err := s.ListMeasurements(ctx, domain.StatusOpen)
	if err != nil || len(open) != 1 || open[0].ID != id2 {
		t.Fatalf("expected measurement %d open, got %+v (%v)", id2, open, err)
	}

	if err := s.AppendPoints(id1, domain.PointTypeAcceleration, domain.Point3D{Timestamp: 1}); err != nil {
		t.Fatalf("append points: %v", err)
	}
	n, err := s.DeleteMeasurement(ctx, id1)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 point removed with measurement, got %d (%v)", n, err)
	}

	if _, err := s.CountPoints(ctx, id1, domain.PointTypeAcceleration); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
