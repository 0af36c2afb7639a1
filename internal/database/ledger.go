package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jordanella.com/device-framer/internal/frame"
)

// StartRun opens a run row; later records are attached to it
func (db *DB) StartRun(dir string) (int64, error) {
	result, err := db.conn.Exec(`
		INSERT INTO runs (dir, started_at) VALUES (?, ?)
	`, dir, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	db.runID = runID
	return runID, nil
}

// FinishRun stores the run's totals and detaches later records from it
func (db *DB) FinishRun(framed, skipped, failed int) error {
	if db.runID == 0 {
		return errors.New("no run in progress")
	}

	_, err := db.conn.Exec(`
		UPDATE runs
		SET finished_at = ?, framed_count = ?, skipped_count = ?, failed_count = ?
		WHERE id = ?
	`, time.Now(), framed, skipped, failed, db.runID)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", db.runID, err)
	}

	db.runID = 0
	return nil
}

func (db *DB) currentRun() *int64 {
	if db.runID == 0 {
		return nil
	}
	id := db.runID
	return &id
}

// RecordFramed stores a successfully framed screenshot
func (db *DB) RecordFramed(res frame.Result) error {
	_, err := db.conn.Exec(`
		INSERT INTO framed_files (run_id, source, destination, width, height, framed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, db.currentRun(), res.Source, res.Destination, res.Width, res.Height, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record framed file: %w", err)
	}
	return nil
}

// RecordFailure stores a screenshot that could not be framed
func (db *DB) RecordFailure(path string, cause error) error {
	kind := "unknown"
	var frameErr *frame.FrameError
	if errors.As(cause, &frameErr) {
		kind = string(frameErr.Kind)
	}

	_, err := db.conn.Exec(`
		INSERT INTO frame_failures (run_id, source, error_kind, error_message, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`, db.currentRun(), path, kind, cause.Error(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to record failure: %w", err)
	}
	return nil
}

// ListFramed returns the most recent framed files, newest first
func (db *DB) ListFramed(limit int) ([]*FramedFile, error) {
	rows, err := db.conn.Query(`
		SELECT id, run_id, source, destination, width, height, framed_at
		FROM framed_files
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*FramedFile
	for rows.Next() {
		f := &FramedFile{}
		if err := rows.Scan(&f.ID, &f.RunID, &f.Source, &f.Destination, &f.Width, &f.Height, &f.FramedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// ListFailures returns the failures recorded for a run
func (db *DB) ListFailures(runID int64) ([]*FrameFailure, error) {
	rows, err := db.conn.Query(`
		SELECT id, run_id, source, error_kind, error_message, occurred_at
		FROM frame_failures
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []*FrameFailure
	for rows.Next() {
		f := &FrameFailure{}
		if err := rows.Scan(&f.ID, &f.RunID, &f.Source, &f.ErrorKind, &f.ErrorMessage, &f.OccurredAt); err != nil {
			return nil, err
		}
		failures = append(failures, f)
	}

	return failures, rows.Err()
}

// GetRun retrieves a run by ID
func (db *DB) GetRun(runID int64) (*Run, error) {
	run := &Run{}
	err := db.conn.QueryRow(`
		SELECT id, dir, started_at, finished_at, framed_count, skipped_count, failed_count
		FROM runs
		WHERE id = ?
	`, runID).Scan(
		&run.ID, &run.Dir, &run.StartedAt, &run.FinishedAt,
		&run.FramedCount, &run.SkippedCount, &run.FailedCount,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}
