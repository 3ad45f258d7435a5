package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/movetrack/tracksync"
)

// Records a short synthetic track in memory and uploads it in one pass.
func main() {
	rec, err := tracksync.NewRecorder("example-device")
	if err != nil {
		log.Fatalf("recorder: %v", err)
	}

	recording := rec.Begin("BICYCLE")
	now := time.Now().UnixMilli()
	for i := 0; i < 100; i++ {
		ts := now + int64(i)*1000
		if err := recording.AddLocations(tracksync.GeoLocation{
			Timestamp: ts,
			Latitude:  51.05 + float64(i)*0.0001,
			Longitude: 13.73,
			Speed:     5.2,
			Accuracy:  800,
		}); err != nil {
			log.Fatalf("add location: %v", err)
		}
		if err := recording.AddPoints(tracksync.PointTypeAcceleration, tracksync.Point3D{
			Timestamp: ts, X: 0.1, Y: 0.0, Z: 9.81,
		}); err != nil {
			log.Fatalf("add acceleration: %v", err)
		}
	}
	if err := recording.Finish(context.Background()); err != nil {
		log.Fatalf("finish: %v", err)
	}

	cfg := &tracksync.Config{
		Device: tracksync.DeviceConfig{ID: "example-device", Vehicle: "BICYCLE"},
		Server: tracksync.ServerConfig{Endpoint: "https://sync.example.com/api/v2"},
		Auth:   tracksync.AuthConfig{Token: "demo-token"},
		Policy: tracksync.Policy{
			LocationBatchSize:     50,
			AccelerationBatchSize: 50,
			RotationBatchSize:     50,
			DirectionBatchSize:    50,
			Format:                tracksync.FormatBinary,
		},
	}

	rt, err := tracksync.NewRuntime(cfg, tracksync.WithStore(rec.Store()))
	if err != nil {
		log.Fatalf("runtime: %v", err)
	}
	defer rt.Shutdown(context.Background())

	res, err := rt.RunOnce(context.Background())
	if err != nil {
		log.Fatalf("sync: %v", err)
	}
	fmt.Printf("synced %d measurements, %d points, %d bytes\n",
		res.MeasurementsSynced, res.PointsUploaded, res.BytesUploaded)
}
