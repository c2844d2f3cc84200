package model

import "time"

// Portfolio represents the aggregate of a user's holdings.
// TotalValue, DailyChange and DailyChangePercent are recomputed on every
// synchronization pass.
type Portfolio struct {
	ID                 string
	UserID             string
	Name               string
	TotalValue         float64
	DailyChange        float64
	DailyChangePercent float64
	UpdatedAt          time.Time
}
