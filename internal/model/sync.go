package model

import "time"

// SyncSummary reports the outcome of one market synchronization pass.
type SyncSummary struct {
	UpdatedCount int
	Timestamp    time.Time
}
