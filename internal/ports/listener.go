package ports

// Progress describes one uploaded slice.
type Progress struct {
	MeasurementID int64
	Points        int64
	Bytes         int64
}

// ProgressListener observes a sync run. Implementations are invoked
// synchronously from the sync worker; a panic in one listener must not
// prevent the others from being notified (the registry isolates it).
type ProgressListener interface {
	// OnStarted fires once per run with the total number of syncable points.
	OnStarted(totalPoints int64)
	// OnProgress fires after every successful slice upload.
	OnProgress(p Progress)
	// OnReadError fires when the point store failed mid-run.
	OnReadError(msg string, cause error)
	// OnTransmitError fires when a slice upload failed.
	OnTransmitError(msg string, cause error)
	// OnFinished fires exactly once per run, error or not.
	OnFinished()
}
