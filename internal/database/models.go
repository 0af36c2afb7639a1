package database

import (
	"time"
)

// Run represents one batch run
type Run struct {
	ID           int64      `db:"id"`
	Dir          string     `db:"dir"`
	StartedAt    time.Time  `db:"started_at"`
	FinishedAt   *time.Time `db:"finished_at"`
	FramedCount  int        `db:"framed_count"`
	SkippedCount int        `db:"skipped_count"`
	FailedCount  int        `db:"failed_count"`
}

// FramedFile represents one screenshot written with its frame
type FramedFile struct {
	ID          int64     `db:"id"`
	RunID       *int64    `db:"run_id"`
	Source      string    `db:"source"`
	Destination string    `db:"destination"`
	Width       int       `db:"width"`
	Height      int       `db:"height"`
	FramedAt    time.Time `db:"framed_at"`
}

// FrameFailure represents a screenshot that could not be framed
type FrameFailure struct {
	ID           int64     `db:"id"`
	RunID        *int64    `db:"run_id"`
	Source       string    `db:"source"`
	ErrorKind    string    `db:"error_kind"`
	ErrorMessage string    `db:"error_message"`
	OccurredAt   time.Time `db:"occurred_at"`
}
