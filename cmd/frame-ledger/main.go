package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"jordanella.com/device-framer/internal/database"
)

func main() {
	os.Exit(run())
}

func run() int {
	dbPath := flag.String("db", "frames.db", "Path to the ledger database")
	limit := flag.Int("limit", 20, "Number of framed files to list")
	runID := flag.Int64("run", 0, "Show failures for this run ID")
	flag.Parse()

	db, err := database.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open ledger: %v\n", err)
		return 1
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		return 1
	}

	if err := inspect(os.Stdout, db, *limit, *runID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// inspect prints table counts, then either one run's failures or the most
// recent framed files.
func inspect(w io.Writer, db *database.DB, limit int, runID int64) error {
	stats, err := db.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	fmt.Fprintf(w, "Runs: %d  Framed: %d  Failures: %d\n",
		stats["runs"], stats["framed_files"], stats["frame_failures"])

	if runID != 0 {
		run, err := db.GetRun(runID)
		if err != nil {
			return fmt.Errorf("failed to get run: %w", err)
		}
		fmt.Fprintf(w, "\nRun %d in %s: %d framed, %d skipped, %d failed\n",
			run.ID, run.Dir, run.FramedCount, run.SkippedCount, run.FailedCount)

		failures, err := db.ListFailures(runID)
		if err != nil {
			return fmt.Errorf("failed to list failures: %w", err)
		}
		for _, f := range failures {
			fmt.Fprintf(w, "  %s [%s] %s\n", filepath.Base(f.Source), f.ErrorKind, f.ErrorMessage)
		}
		return nil
	}

	files, err := db.ListFramed(limit)
	if err != nil {
		return fmt.Errorf("failed to list framed files: %w", err)
	}
	fmt.Fprintln(w)
	for _, f := range files {
		fmt.Fprintf(w, "%s  %s -> %s (%dx%d)\n", f.FramedAt.Format("2006-01-02 15:04:05"),
			filepath.Base(f.Source), filepath.Base(f.Destination), f.Width, f.Height)
	}
	return nil
}
