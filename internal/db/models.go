package db

import "time"

// ContentRow is one catalog entry as stored.
type ContentRow struct {
	Mood      string
	Position  int
	ContentID string
	CreatedAt time.Time
}
