package pgstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/movetrack/tracksync/internal/domain"
	"github.com/movetrack/tracksync/internal/ports"
)

func TestPGStoreListMeasurements(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "device_id", "vehicle", "status"}).
		AddRow(1, "device-1", "BICYCLE", "FINISHED").
		AddRow(3, "device-1", "CAR", "FINISHED")
	mock.ExpectQuery("SELECT id, device_id, vehicle, status FROM measurements WHERE status").
		WithArgs("FINISHED").
		WillReturnRows(rows)

	store := New(db)
	ms, err := store.ListMeasurements(context.Background(), domain.StatusFinished)
	if err != nil {
		t.Fatalf("list measurements: %v", err)
	}
	if len(ms) != 2 || ms[0].ID != 1 || ms[1].ID != 3 {
		t.Fatalf("unexpected measurements: %+v", ms)
	}
	if ms[0].Status != domain.StatusFinished {
		t.Fatalf("expected FINISHED status, got %s", ms[0].Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreCountAndLoadLocations(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM gps_points WHERE measurement_fk`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(250))

	locRows := sqlmock.NewRows([]string{"gps_time", "lat", "lon", "speed", "accuracy"}).
		AddRow(1000, 51.05, 13.73, 5.4, 300).
		AddRow(1001, 51.06, 13.74, 5.5, 310)
	mock.ExpectQuery(`SELECT gps_time, lat, lon, speed, accuracy FROM`).
		WithArgs(int64(7), int64(100), int64(100)).
		WillReturnRows(locRows)

	store := New(db)
	ctx := context.Background()

	n, err := store.CountPoints(ctx, 7, domain.PointTypeLocation)
	if err != nil || n != 250 {
		t.Fatalf("expected count 250, got %d (%v)", n, err)
	}

	locs, err := store.LoadLocations(ctx, 7, 100, 100)
	if err != nil {
		t.Fatalf("load locations: %v", err)
	}
	if len(locs) != 2 || locs[0].Latitude != 51.05 {
		t.Fatalf("unexpected locations: %+v", locs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreLoadPointsPerFamilyTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT time, mx, my, mz FROM`).
		WithArgs(int64(2), int64(0), int64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"time", "mx", "my", "mz"}).
			AddRow(999, 0.1, 0.2, 0.3))

	store := New(db)
	pts, err := store.LoadPoints(context.Background(), 2, domain.PointTypeDirection, 0, 50)
	if err != nil {
		t.Fatalf("load points: %v", err)
	}
	if len(pts) != 1 || pts[0].X != 0.1 {
		t.Fatalf("unexpected points: %+v", pts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreDeletePointsMarksWindowSynced(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE sample_points SET is_synced = TRUE`).
		WithArgs(int64(7), int64(0), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 100))

	store := New(db)
	n, err := store.DeletePoints(context.Background(), 7, domain.PointTypeAcceleration, 0, 100)
	if err != nil || n != 100 {
		t.Fatalf("expected 100 marked, got %d (%v)", n, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreSetStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE measurements SET status`).
		WithArgs(int64(99), "SYNCED").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := New(db)
	err = store.SetStatus(context.Background(), 99, domain.StatusSynced)
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreDeleteMeasurementDropsAllTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM gps_points WHERE measurement_fk`).
		WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 10))
	mock.ExpectExec(`DELETE FROM sample_points WHERE measurement_fk`).
		WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 20))
	mock.ExpectExec(`DELETE FROM rotation_points WHERE measurement_fk`).
		WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`DELETE FROM magnetic_value_points WHERE measurement_fk`).
		WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`DELETE FROM measurements WHERE id`).
		WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := New(db)
	n, err := store.DeleteMeasurement(context.Background(), 7)
	if err != nil {
		t.Fatalf("delete measurement: %v", err)
	}
	if n != 40 {
		t.Fatalf("expected 40 points deleted, got %d", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreStoreUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM gps_points`).
		WithArgs(int64(1)).
		WillReturnError(errors.New("connection refused"))

	store := New(db)
	_, err = store.CountPoints(context.Background(), 1, domain.PointTypeLocation)
	if !errors.Is(err, ports.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
