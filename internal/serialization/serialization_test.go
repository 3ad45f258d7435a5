package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"

	"github.com/movetrack/tracksync/internal/domain"
)

func testSlice() *domain.Slice {
	return &domain.Slice{
		MeasurementID: 42,
		DeviceID:      "device-1",
		Vehicle:       "BICYCLE",
		Locations: []domain.GeoLocation{
			{Timestamp: 1000, Latitude: 51.05, Longitude: 13.73, Speed: 5.4, Accuracy: 300},
		},
		Accelerations: []domain.Point3D{
			{Timestamp: 1001, X: 0.1, Y: 9.81, Z: -0.2},
			{Timestamp: 1002, X: 0.2, Y: 9.80, Z: -0.1},
		},
		Rotations: []domain.Point3D{
			{Timestamp: 1001, X: 0.01, Y: 0.02, Z: 0.03},
		},
	}
}

func TestEncodeJSONShape(t *testing.T) {
	raw, err := EncodeJSON(testSlice())
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if decoded["id"].(float64) != 42 {
		t.Fatalf("expected id 42, got %v", decoded["id"])
	}
	if decoded["deviceId"] != "device-1" {
		t.Fatalf("expected deviceId device-1, got %v", decoded["deviceId"])
	}
	if decoded["vehicle"] != "BICYCLE" {
		t.Fatalf("expected vehicle BICYCLE, got %v", decoded["vehicle"])
	}

	gps := decoded["gpsPoints"].([]any)
	if len(gps) != 1 {
		t.Fatalf("expected 1 gps point, got %d", len(gps))
	}
	first := gps[0].(map[string]any)
	if first["lat"].(float64) != 51.05 {
		t.Fatalf("expected lat 51.05, got %v", first["lat"])
	}

	accels := decoded["accelerationPoints"].([]any)
	if len(accels) != 2 {
		t.Fatalf("expected 2 acceleration points, got %d", len(accels))
	}
	if _, ok := accels[0].(map[string]any)["ax"]; !ok {
		t.Fatalf("acceleration points must use ax/ay/az keys: %v", accels[0])
	}

	// Exhausted families must encode as [] so the collector sees arrays.
	dirs, ok := decoded["directionPoints"].([]any)
	if !ok || len(dirs) != 0 {
		t.Fatalf("expected empty directionPoints array, got %v", decoded["directionPoints"])
	}
}

func TestEncodeJSONHeaderOnlySlice(t *testing.T) {
	raw, err := EncodeJSON(&domain.Slice{MeasurementID: 7, DeviceID: "d", Vehicle: "CAR"})
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	if bytes.Contains(raw, []byte("null")) {
		t.Fatalf("header-only slice must not contain null arrays: %s", raw)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	in := testSlice()

	raw, err := EncodeBinary(in)
	if err != nil {
		t.Fatalf("encode binary: %v", err)
	}
	if len(raw) != headerLen+1*locationLen+3*point3DLen {
		t.Fatalf("unexpected container size %d", len(raw))
	}

	out, err := DecodeBinary(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode binary: %v", err)
	}

	if len(out.Locations) != 1 || len(out.Accelerations) != 2 || len(out.Rotations) != 1 || len(out.Directions) != 0 {
		t.Fatalf("unexpected counts after round trip: %+v", out)
	}
	if out.Locations[0] != in.Locations[0] {
		t.Fatalf("location corrupted: %+v != %+v", out.Locations[0], in.Locations[0])
	}
	if out.Accelerations[1] != in.Accelerations[1] {
		t.Fatalf("acceleration corrupted: %+v != %+v", out.Accelerations[1], in.Accelerations[1])
	}
}

func TestBinaryCompressedRoundTrip(t *testing.T) {
	in := testSlice()

	packed, err := EncodeBinaryCompressed(in)
	if err != nil {
		t.Fatalf("encode compressed: %v", err)
	}

	out, err := DecodeBinaryCompressed(packed)
	if err != nil {
		t.Fatalf("decode compressed: %v", err)
	}
	if out.Locations[0] != in.Locations[0] {
		t.Fatalf("location corrupted after compression round trip")
	}
}

func TestDecodeBinaryRejectsUnknownVersion(t *testing.T) {
	raw, err := EncodeBinary(testSlice())
	if err != nil {
		t.Fatalf("encode binary: %v", err)
	}
	raw[0] = 0xFF

	if _, err := DecodeBinary(bytes.NewReader(raw)); err == nil {
		t.Fatalf("expected version error")
	}
}

func TestDecodeBinaryTruncated(t *testing.T) {
	raw, err := EncodeBinary(testSlice())
	if err != nil {
		t.Fatalf("encode binary: %v", err)
	}

	if _, err := DecodeBinary(bytes.NewReader(raw[:len(raw)-5])); err == nil {
		t.Fatalf("expected error on truncated container")
	}
}

func TestDecodeBinaryHugeClaimedCounts(t *testing.T) {
	// A header claiming 4G records with an empty body must fail on the
	// first missing record instead of reserving memory for the claim.
	var hdr [headerLen]byte
	binary.BigEndian.PutUint16(hdr[0:2], FormatVersion)
	binary.BigEndian.PutUint32(hdr[2:6], math.MaxUint32)

	if _, err := DecodeBinary(bytes.NewReader(hdr[:])); err == nil {
		t.Fatalf("expected error for a count the body cannot back")
	}
}
