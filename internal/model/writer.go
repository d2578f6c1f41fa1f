package model

// Writer defines a generic interface for publishing a finished report snapshot.
type Writer interface {
	// Write renders or stores the snapshot. The timestamp identifies the run
	// and is expected to be stable for all writers of the same run.
	Write(snapshot *ReportSnapshot, timestamp string) error
}
