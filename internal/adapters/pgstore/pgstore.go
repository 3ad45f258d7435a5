package pgstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/movetrack/tracksync/internal/domain"
	"github.com/movetrack/tracksync/internal/ports"
)

// PGStore is a PointStore backed by Postgres. Each channel family lives in
// its own table with an is_synced column; DeletePoints flips that flag so
// load windows stay positionally stable for the rest of the run, and
// DeleteMeasurement drops the rows for good.
type PGStore struct {
	db *sql.DB
}

func New(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

type pointTable struct {
	name string
	cols [3]string
}

var pointTables = map[domain.PointType]pointTable{
	domain.PointTypeAcceleration: {name: "sample_points", cols: [3]string{"ax", "ay", "az"}},
	domain.PointTypeRotation:     {name: "rotation_points", cols: [3]string{"rx", "ry", "rz"}},
	domain.PointTypeDirection:    {name: "magnetic_value_points", cols: [3]string{"mx", "my", "mz"}},
}

const locationTable = "gps_points"

// Schema is the DDL for all tracksync tables.
const Schema = `
CREATE TABLE IF NOT EXISTS measurements (
	id BIGSERIAL PRIMARY KEY,
	device_id TEXT NOT NULL,
	vehicle TEXT NOT NULL,
	status TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS gps_points (
	id BIGSERIAL PRIMARY KEY,
	measurement_fk BIGINT NOT NULL REFERENCES measurements(id),
	gps_time BIGINT NOT NULL,
	lat DOUBLE PRECISION NOT NULL,
	lon DOUBLE PRECISION NOT NULL,
	speed DOUBLE PRECISION NOT NULL,
	accuracy INTEGER NOT NULL,
	is_synced BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS sample_points (
	id BIGSERIAL PRIMARY KEY,
	measurement_fk BIGINT NOT NULL REFERENCES measurements(id),
	time BIGINT NOT NULL,
	ax DOUBLE PRECISION NOT NULL,
	ay DOUBLE PRECISION NOT NULL,
	az DOUBLE PRECISION NOT NULL,
	is_synced BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS rotation_points (
	id BIGSERIAL PRIMARY KEY,
	measurement_fk BIGINT NOT NULL REFERENCES measurements(id),
	time BIGINT NOT NULL,
	rx DOUBLE PRECISION NOT NULL,
	ry DOUBLE PRECISION NOT NULL,
	rz DOUBLE PRECISION NOT NULL,
	is_synced BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS magnetic_value_points (
	id BIGSERIAL PRIMARY KEY,
	measurement_fk BIGINT NOT NULL REFERENCES measurements(id),
	time BIGINT NOT NULL,
	mx DOUBLE PRECISION NOT NULL,
	my DOUBLE PRECISION NOT NULL,
	mz DOUBLE PRECISION NOT NULL,
	is_synced BOOLEAN NOT NULL DEFAULT FALSE
);
`

// InitSchema creates all tables if they do not exist yet.
func (s *PGStore) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *PGStore) ListMeasurements(ctx context.Context, status domain.MeasurementStatus) ([]domain.Measurement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, device_id, vehicle, status FROM measurements WHERE status = $1 ORDER BY id", string(status))
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []domain.Measurement
	for rows.Next() {
		var m domain.Measurement
		var st string
		if err := rows.Scan(&m.ID, &m.DeviceID, &m.Vehicle, &st); err != nil {
			return nil, storeErr(err)
		}
		m.Status = domain.MeasurementStatus(st)
		out = append(out, m)
	}
	return out, storeErr(rows.Err())
}

func (s *PGStore) CountPoints(ctx context.Context, measurementID int64, t domain.PointType) (int64, error) {
	table := locationTable
	if t != domain.PointTypeLocation {
		table = pointTables[t].name
	}

	// Synced rows still occupy window positions until DeleteMeasurement
	// drops them, so the count covers every row: cursors of a resumed run
	// must sweep past the retired prefix to reach the un-synced tail.
	var n int64
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE measurement_fk = $1", table),
		measurementID).Scan(&n)
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

// Load windows select by row position over the whole measurement, synced
// rows included, and filter afterwards. Flipping is_synced mid-run then
// produces short pages instead of shifting later offsets.
func (s *PGStore) LoadLocations(ctx context.Context, measurementID int64, offset, limit int64) ([]domain.GeoLocation, error) {
	query := fmt.Sprintf(`SELECT gps_time, lat, lon, speed, accuracy FROM (
		SELECT gps_time, lat, lon, speed, accuracy, is_synced FROM %s
		WHERE measurement_fk = $1 ORDER BY id OFFSET $2 LIMIT $3
	) w WHERE NOT w.is_synced`, locationTable)

	rows, err := s.db.QueryContext(ctx, query, measurementID, offset, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []domain.GeoLocation
	for rows.Next() {
		var l domain.GeoLocation
		if err := rows.Scan(&l.Timestamp, &l.Latitude, &l.Longitude, &l.Speed, &l.Accuracy); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, l)
	}
	return out, storeErr(rows.Err())
}

func (s *PGStore) LoadPoints(ctx context.Context, measurementID int64, t domain.PointType, offset, limit int64) ([]domain.Point3D, error) {
	tbl, ok := pointTables[t]
	if !ok {
		return nil, fmt.Errorf("unknown point type %q", t)
	}
	query := fmt.Sprintf(`SELECT time, %[2]s, %[3]s, %[4]s FROM (
		SELECT time, %[2]s, %[3]s, %[4]s, is_synced FROM %[1]s
		WHERE measurement_fk = $1 ORDER BY id OFFSET $2 LIMIT $3
	) w WHERE NOT w.is_synced`, tbl.name, tbl.cols[0], tbl.cols[1], tbl.cols[2])

	rows, err := s.db.QueryContext(ctx, query, measurementID, offset, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []domain.Point3D
	for rows.Next() {
		var p domain.Point3D
		if err := rows.Scan(&p.Timestamp, &p.X, &p.Y, &p.Z); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, p)
	}
	return out, storeErr(rows.Err())
}

func (s *PGStore) DeletePoints(ctx context.Context, measurementID int64, t domain.PointType, offset, limit int64) (int64, error) {
	table := locationTable
	if t != domain.PointTypeLocation {
		table = pointTables[t].name
	}
	query := fmt.Sprintf(`UPDATE %[1]s SET is_synced = TRUE WHERE id IN (
		SELECT id FROM %[1]s WHERE measurement_fk = $1 ORDER BY id OFFSET $2 LIMIT $3
	) AND NOT is_synced`, table)

	res, err := s.db.ExecContext(ctx, query, measurementID, offset, limit)
	if err != nil {
		return 0, storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

func (s *PGStore) SetStatus(ctx context.Context, measurementID int64, status domain.MeasurementStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE measurements SET status = $2 WHERE id = $1", measurementID, string(status))
	if err != nil {
		return storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (s *PGStore) DeleteMeasurement(ctx context.Context, measurementID int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr(err)
	}
	defer tx.Rollback()

	tables := []string{
		locationTable,
		pointTables[domain.PointTypeAcceleration].name,
		pointTables[domain.PointTypeRotation].name,
		pointTables[domain.PointTypeDirection].name,
	}

	var total int64
	for _, table := range tables {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE measurement_fk = $1", table), measurementID)
		if err != nil {
			return 0, storeErr(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, storeErr(err)
		}
		total += n
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM measurements WHERE id = $1", measurementID)
	if err != nil {
		return 0, storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr(err)
	}
	if n == 0 {
		return 0, ports.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr(err)
	}
	return total, nil
}

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ports.ErrStoreUnavailable, err)
}

var _ ports.PointStore = (*PGStore)(nil)
