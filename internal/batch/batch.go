// Package batch finds screenshots in a directory and frames each one that
// has not been framed already.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jordanella.com/device-framer/internal/frame"
	"jordanella.com/device-framer/internal/logging"
)

// ErrDirNotFound is returned when the screenshot directory is missing. It is
// the only condition that stops a run.
var ErrDirNotFound = errors.New("screenshot directory not found")

// Options selects which files a run processes and how outputs are named
type Options struct {
	Dir     string // Directory holding the screenshots
	Pattern string // Glob matched against file names in Dir
	Marker  string // Stems containing this are outputs and never inputs
	Suffix  string // Appended to the input stem to name the output
}

// DefaultOptions returns the options for the app's screenshot folder
func DefaultOptions() Options {
	return Options{
		Dir:     "screenshots",
		Pattern: "blip-*.png",
		Marker:  "-framed",
		Suffix:  "-framed",
	}
}

// Framer frames a single file
type Framer interface {
	FrameScreenshot(input, output string) (frame.Result, error)
}

// Recorder receives the outcome of every file in a run
type Recorder interface {
	RecordFramed(res frame.Result) error
	RecordFailure(path string, err error) error
}

// FileError is a failure confined to one input file
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(e.Path), e.Err)
}

// Summary is the outcome of one run
type Summary struct {
	Framed  []frame.Result
	Skipped []string
	Failed  []FileError
}

// HasFailures reports whether any file failed to frame
func (s *Summary) HasFailures() bool {
	return len(s.Failed) > 0
}

// Driver runs the framer over every candidate file, one at a time
type Driver struct {
	opts     Options
	framer   Framer
	logger   *logging.Logger
	reporter *logging.ErrorReporter
	recorder Recorder
}

// NewDriver creates a driver. A nil logger logs to stdout.
func NewDriver(opts Options, framer Framer, logger *logging.Logger) *Driver {
	if logger == nil {
		logger = logging.NewLogger("Batch")
	}
	return &Driver{
		opts:   opts,
		framer: framer,
		logger: logger,
	}
}

// SetReporter sends per-file failures to an error reporter
func (d *Driver) SetReporter(r *logging.ErrorReporter) {
	d.reporter = r
}

// SetRecorder sends every outcome to a recorder such as the ledger
func (d *Driver) SetRecorder(r Recorder) {
	d.recorder = r
}

// Run frames every candidate in the directory. A failing file is logged and
// recorded in the summary and the run moves on to the next file.
func (d *Driver) Run() (*Summary, error) {
	info, err := os.Stat(d.opts.Dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirNotFound, d.opts.Dir)
	}

	inputs, skipped, err := Candidates(d.opts.Dir, d.opts.Pattern, d.opts.Marker)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Skipped: skipped}

	if len(inputs) == 0 {
		d.logger.DebugWithContext("No screenshots to frame", map[string]interface{}{
			"dir":     d.opts.Dir,
			"pattern": d.opts.Pattern,
		})
		return summary, nil
	}

	for _, input := range inputs {
		output := OutputPath(input, d.opts.Suffix)

		res, err := d.framer.FrameScreenshot(input, output)
		if err != nil {
			d.fail(summary, input, err)
			continue
		}

		summary.Framed = append(summary.Framed, res)
		if d.recorder != nil {
			if err := d.recorder.RecordFramed(res); err != nil {
				d.ledgerError(input, err)
			}
		}
	}

	d.logger.InfoWithContext("Batch complete", map[string]interface{}{
		"framed":  len(summary.Framed),
		"skipped": len(summary.Skipped),
		"failed":  len(summary.Failed),
	})

	return summary, nil
}

func (d *Driver) fail(summary *Summary, input string, err error) {
	summary.Failed = append(summary.Failed, FileError{Path: input, Err: err})

	category := logging.ErrorCategoryFilesystem
	switch {
	case errors.Is(err, frame.ErrDecode):
		category = logging.ErrorCategoryDecode
	case errors.Is(err, frame.ErrWrite):
		category = logging.ErrorCategoryWrite
	}

	context := map[string]interface{}{"file": filepath.Base(input)}
	if d.reporter != nil {
		d.reporter.ReportErrorWithContext(category, logging.ErrorSeverityHigh, "Batch",
			"Failed to frame screenshot", err, context)
	} else {
		d.logger.ErrorWithContext("Failed to frame screenshot", err, context)
	}

	if d.recorder != nil {
		if recErr := d.recorder.RecordFailure(input, err); recErr != nil {
			d.ledgerError(input, recErr)
		}
	}
}

func (d *Driver) ledgerError(input string, err error) {
	context := map[string]interface{}{"file": filepath.Base(input)}
	if d.reporter != nil {
		d.reporter.ReportErrorWithContext(logging.ErrorCategoryLedger, logging.ErrorSeverityMedium, "Batch",
			"Failed to record outcome", err, context)
		return
	}
	d.logger.WarnWithContext("Failed to record outcome", context)
}

// Candidates returns the files in dir matching pattern, sorted by name.
// Files whose stem contains marker are returned separately as skipped.
func Candidates(dir, pattern, marker string) (inputs, skipped []string, err error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return filepath.Base(matches[i]) < filepath.Base(matches[j])
	})

	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		if marker != "" && strings.Contains(stem(path), marker) {
			skipped = append(skipped, path)
			continue
		}
		inputs = append(inputs, path)
	}

	return inputs, skipped, nil
}

// OutputPath names the framed file for input: blip-42.png -> blip-42-framed.png
func OutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
