package model

import "time"

// Insight is a single read-only trading insight record.
// Insights are never persisted; they are produced per request.
type Insight struct {
	Type       string
	Message    string
	Confidence float64
	Timestamp  time.Time
}
