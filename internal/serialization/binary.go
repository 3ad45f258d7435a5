package serialization

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/movetrack/tracksync/internal/domain"
)

// FormatVersion identifies the packed container layout.
const FormatVersion uint16 = 1

// container layout, all big-endian:
//
//	[2 bytes version][4 bytes location count][4 bytes acceleration count]
//	[4 bytes rotation count][4 bytes direction count]
//	locations:  (ts int64, lat float64, lon float64, speed float64, accuracy int32)
//	3D points:  (ts int64, x float64, y float64, z float64) per family
const (
	headerLen   = 18
	locationLen = 36
	point3DLen  = 32

	// maxPrealloc caps the slice capacity reserved from header counts.
	// The counts are untrusted input; records past the cap grow the
	// slice as they are actually read.
	maxPrealloc = 1 << 16
)

func prealloc(n uint32) int {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return int(n)
}

// EncodeBinary packs a measurement slice into the binary container.
func EncodeBinary(s *domain.Slice) ([]byte, error) {
	size := headerLen + len(s.Locations)*locationLen +
		(len(s.Accelerations)+len(s.Rotations)+len(s.Directions))*point3DLen
	buf := make([]byte, 0, size)

	var hdr [headerLen]byte
	binary.BigEndian.PutUint16(hdr[0:2], FormatVersion)
	binary.BigEndian.PutUint32(hdr[2:6], uint32(len(s.Locations)))
	binary.BigEndian.PutUint32(hdr[6:10], uint32(len(s.Accelerations)))
	binary.BigEndian.PutUint32(hdr[10:14], uint32(len(s.Rotations)))
	binary.BigEndian.PutUint32(hdr[14:18], uint32(len(s.Directions)))
	buf = append(buf, hdr[:]...)

	for _, l := range s.Locations {
		var rec [locationLen]byte
		binary.BigEndian.PutUint64(rec[0:8], uint64(l.Timestamp))
		binary.BigEndian.PutUint64(rec[8:16], math.Float64bits(l.Latitude))
		binary.BigEndian.PutUint64(rec[16:24], math.Float64bits(l.Longitude))
		binary.BigEndian.PutUint64(rec[24:32], math.Float64bits(l.Speed))
		binary.BigEndian.PutUint32(rec[32:36], uint32(l.Accuracy))
		buf = append(buf, rec[:]...)
	}
	for _, family := range [][]domain.Point3D{s.Accelerations, s.Rotations, s.Directions} {
		for _, p := range family {
			var rec [point3DLen]byte
			binary.BigEndian.PutUint64(rec[0:8], uint64(p.Timestamp))
			binary.BigEndian.PutUint64(rec[8:16], math.Float64bits(p.X))
			binary.BigEndian.PutUint64(rec[16:24], math.Float64bits(p.Y))
			binary.BigEndian.PutUint64(rec[24:32], math.Float64bits(p.Z))
			buf = append(buf, rec[:]...)
		}
	}

	return buf, nil
}

// EncodeBinaryCompressed packs the slice and deflates it for transmission.
func EncodeBinaryCompressed(s *domain.Slice) ([]byte, error) {
	raw, err := EncodeBinary(s)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodeBinary reads a packed container back into a slice. Windows are not
// part of the wire format and come back zero.
func DecodeBinary(r io.Reader) (*domain.Slice, error) {
	var hdr [headerLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("container header: %w", err)
	}
	version := binary.BigEndian.Uint16(hdr[0:2])
	if version != FormatVersion {
		return nil, fmt.Errorf("unsupported container version %d", version)
	}

	g := binary.BigEndian.Uint32(hdr[2:6])
	a := binary.BigEndian.Uint32(hdr[6:10])
	rc := binary.BigEndian.Uint32(hdr[10:14])
	d := binary.BigEndian.Uint32(hdr[14:18])

	s := &domain.Slice{
		Locations: make([]domain.GeoLocation, 0, prealloc(g)),
	}

	for i := uint32(0); i < g; i++ {
		var rec [locationLen]byte
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, fmt.Errorf("location record %d: %w", i, err)
		}
		s.Locations = append(s.Locations, domain.GeoLocation{
			Timestamp: int64(binary.BigEndian.Uint64(rec[0:8])),
			Latitude:  math.Float64frombits(binary.BigEndian.Uint64(rec[8:16])),
			Longitude: math.Float64frombits(binary.BigEndian.Uint64(rec[16:24])),
			Speed:     math.Float64frombits(binary.BigEndian.Uint64(rec[24:32])),
			Accuracy:  int32(binary.BigEndian.Uint32(rec[32:36])),
		})
	}
	var err error
	if s.Accelerations, err = readPoints3D(r, a); err != nil {
		return nil, err
	}
	if s.Rotations, err = readPoints3D(r, rc); err != nil {
		return nil, err
	}
	if s.Directions, err = readPoints3D(r, d); err != nil {
		return nil, err
	}

	return s, nil
}

func readPoints3D(r io.Reader, n uint32) ([]domain.Point3D, error) {
	out := make([]domain.Point3D, 0, prealloc(n))
	for i := uint32(0); i < n; i++ {
		var rec [point3DLen]byte
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, fmt.Errorf("point record %d: %w", i, err)
		}
		out = append(out, domain.Point3D{
			Timestamp: int64(binary.BigEndian.Uint64(rec[0:8])),
			X:         math.Float64frombits(binary.BigEndian.Uint64(rec[8:16])),
			Y:         math.Float64frombits(binary.BigEndian.Uint64(rec[16:24])),
			Z:         math.Float64frombits(binary.BigEndian.Uint64(rec[24:32])),
		})
	}
	return out, nil
}

// DecodeBinaryCompressed inflates and decodes a compressed container.
func DecodeBinaryCompressed(data []byte) (*domain.Slice, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return DecodeBinary(zr)
}
