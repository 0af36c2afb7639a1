package main

import (
	"fmt"
	"os"

	"jordanella.com/device-framer/internal/batch"
	"jordanella.com/device-framer/internal/config"
	"jordanella.com/device-framer/internal/database"
	"jordanella.com/device-framer/internal/frame"
	"jordanella.com/device-framer/internal/logging"
	"jordanella.com/device-framer/pkg/profiles"
)

func main() {
	os.Exit(run())
}

func run() int {
	settings, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", config.DefaultPath, err)
		return 1
	}

	logger := logging.NewLogger("FrameScreenshots").SetMinLevel(settings.Level())
	if settings.LogDir != "" {
		logFile, err := logging.OpenLogFile(settings.LogDir, "frame")
		if err != nil {
			logger.Fatal("Failed to open log file", err)
			return 1
		}
		defer logFile.Close()
		logger.AddOutput(logFile)
	}

	reporter := logging.NewErrorReporter()
	reporter.SetLogger(logger.Named("ErrorReporter"))

	geometry, err := settings.ResolveGeometry(profiles.NewProfileRegistry())
	if err != nil {
		reporter.ReportCriticalError(logging.ErrorCategoryConfig, "FrameScreenshots",
			"Failed to resolve frame geometry", err, map[string]interface{}{"profile": settings.Profile})
		return 1
	}

	compositor := frame.NewCompositor(
		frame.WithGeometry(geometry),
		frame.WithLogger(logger.Named("Compositor")),
	)

	driver := batch.NewDriver(settings.BatchOptions(), compositor, logger.Named("Batch"))
	driver.SetReporter(reporter)

	var ledger *database.DB
	if settings.LedgerPath != "" {
		ledger, err = openLedger(settings.LedgerPath, settings.Dir, logger.Named("Ledger"))
		if err != nil {
			reporter.ReportCriticalError(logging.ErrorCategoryLedger, "FrameScreenshots",
				"Failed to open ledger", err, map[string]interface{}{"path": settings.LedgerPath})
			return 1
		}
		defer ledger.Close()
		driver.SetRecorder(ledger)
	}

	summary, err := runBatch(driver, ledger, reporter)
	if err != nil {
		reporter.ReportCriticalError(logging.ErrorCategoryFilesystem, "FrameScreenshots",
			"Batch aborted", err, map[string]interface{}{"dir": settings.Dir})
		return 1
	}

	writeSummary(os.Stdout, summary, reporter)

	return 0
}

func openLedger(path, dir string, logger *logging.Logger) (*database.DB, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	db.SetLogger(logger)

	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := db.StartRun(dir); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
