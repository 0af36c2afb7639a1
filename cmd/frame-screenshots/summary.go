package main

import (
	"fmt"
	"io"

	"jordanella.com/device-framer/internal/batch"
	"jordanella.com/device-framer/internal/database"
	"jordanella.com/device-framer/internal/logging"
)

// runBatch runs the driver and closes the ledger run whether or not the
// batch got started, so no run row is left unfinished.
func runBatch(driver *batch.Driver, ledger *database.DB, reporter *logging.ErrorReporter) (*batch.Summary, error) {
	summary, err := driver.Run()
	if ledger == nil {
		return summary, err
	}

	var framed, skipped, failed int
	if summary != nil {
		framed, skipped, failed = len(summary.Framed), len(summary.Skipped), len(summary.Failed)
	}
	if finErr := ledger.FinishRun(framed, skipped, failed); finErr != nil {
		reporter.ReportError(logging.ErrorCategoryLedger, logging.ErrorSeverityMedium,
			"FrameScreenshots", "Failed to close ledger run", finErr)
	}

	return summary, err
}

// writeSummary prints the run totals and, when files failed, one line per
// failure grouped by decode and write.
func writeSummary(w io.Writer, summary *batch.Summary, reporter *logging.ErrorReporter) {
	fmt.Fprintf(w, "Done: %d framed, %d skipped, %d failed\n",
		len(summary.Framed), len(summary.Skipped), len(summary.Failed))

	if !summary.HasFailures() {
		return
	}

	stats := reporter.GetErrorStats()
	fmt.Fprintf(w, "Failures: %d decode, %d write\n", stats["category_decode"], stats["category_write"])

	for _, category := range []logging.ErrorCategory{logging.ErrorCategoryDecode, logging.ErrorCategoryWrite} {
		reports := reporter.GetErrorsByCategory(category, len(summary.Failed))
		// Newest first; print in processing order
		for i := len(reports) - 1; i >= 0; i-- {
			r := reports[i]
			fmt.Fprintf(w, "  %s %v: %v\n", category, r.Context["file"], r.Error)
		}
	}
}
