package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"tt-go/internal/alert"
	"tt-go/internal/archive"
	"tt-go/internal/config"
	"tt-go/internal/database"
	"tt-go/internal/export"
	"tt-go/internal/model"
	"tt-go/internal/track"
)

// App is the application layer between the CLI and the track.Service.
// It constructs all dependencies from config, dispatches alerts for
// critically-late submissions (the service itself performs no alert I/O),
// and manages resource lifecycle on Close.
type App struct {
	cfg      *config.Config
	store    track.Store
	alerter  track.Alerter
	archiver track.Archiver
	service  *track.Service
	logger   track.Logger
	logFile  *os.File
}

// NewApp creates a fully wired App from the given config.
// The caller must call Close when done.
func NewApp(cfg *config.Config) (*App, error) {
	runID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	store, err := database.NewStoreFromConfig(cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	alerter, err := alert.NewAlerterFromConfig(cfg.Alert, logger)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating alerter: %w", err)
	}

	archiver, err := archive.NewArchiverFromConfig(cfg.Archive)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating archiver: %w", err)
	}

	svc := track.NewService(store, logger, track.RealClock{}, track.UUIDGenerator{}, cfg.Report.CriticalThresholdPercent)

	return &App{
		cfg:      cfg,
		store:    store,
		alerter:  alerter,
		archiver: archiver,
		service:  svc,
		logger:   logger,
		logFile:  logFile,
	}, nil
}

// SubmitOutcome is a committed submission plus the alert side of the story.
// The record is committed regardless of what happened to the alert.
type SubmitOutcome struct {
	Result         *track.SubmitResult
	AlertAttempted bool
	AlertDelivered bool
	AlertWarning   string // non-empty when an attempted alert failed
}

// Submit ingests one time entry and, when the record classifies as
// critically late, attempts an alert. Alert failure is a soft warning on
// the outcome, never an error: the record is already committed.
func (a *App) Submit(employeeName, taskName string, actualMinutes, baselineMinutes float64) (*SubmitOutcome, error) {
	result, err := a.service.Submit(track.Submission{
		EmployeeName:    employeeName,
		TaskName:        taskName,
		ActualMinutes:   actualMinutes,
		BaselineMinutes: baselineMinutes,
	})
	if err != nil {
		return nil, err
	}

	outcome := &SubmitOutcome{Result: result}
	if result.Deviation.Category != track.CategoryCritical {
		return outcome, nil
	}

	outcome.AlertAttempted = true
	msg := fmt.Sprintf("Critical deviation: %s spent %.1f min on %q (baseline %.1f min, %+.1f%%)",
		result.EmployeeName, result.Record.ActualMinutes, result.TaskName,
		result.Record.BaselineMinutes, result.Deviation.Percent)

	delivered, err := a.alerter.Dispatch(context.Background(), msg)
	outcome.AlertDelivered = delivered
	if err != nil {
		outcome.AlertWarning = fmt.Sprintf("alert dispatch failed: %v", err)
		a.logger.Warn("alert dispatch failed", "error", err)
	}
	return outcome, nil
}

// Records returns all record views ordered by insertion timestamp.
func (a *App) Records() ([]*track.RecordView, error) {
	return a.service.Records()
}

// Tasks returns all task definitions ordered by name.
func (a *App) Tasks() ([]*model.TaskDefinition, error) {
	return a.service.Tasks()
}

// TaskPerformances returns the per-task aggregation.
func (a *App) TaskPerformances() ([]*track.TaskPerformance, error) {
	return a.service.TaskPerformances()
}

// Timeline returns per-record intervals ordered by start time.
func (a *App) Timeline() ([]*track.TimelineEntry, error) {
	return a.service.Timeline()
}

// Wipe removes all data atomically.
func (a *App) Wipe() error {
	return a.service.Wipe()
}

// Export renders the requested format ("csv" or "summary") to w.
func (a *App) Export(format string, w io.Writer) error {
	switch format {
	case "csv":
		records, err := a.service.Records()
		if err != nil {
			return err
		}
		return export.WriteCSV(w, records)
	case "summary":
		records, err := a.service.Records()
		if err != nil {
			return err
		}
		perfs, err := a.service.TaskPerformances()
		if err != nil {
			return err
		}
		return export.WriteSummary(w, perfs, records, a.service.ThresholdPercent())
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

// ExportToArchive renders the requested format and stores it in the
// configured archive backend. Returns the stored report name.
func (a *App) ExportToArchive(format string) (string, error) {
	ext := map[string]string{"csv": "csv", "summary": "txt"}[format]
	if ext == "" {
		return "", fmt.Errorf("unknown export format: %s", format)
	}

	var buf bytes.Buffer
	if err := a.Export(format, &buf); err != nil {
		return "", err
	}

	name := fmt.Sprintf("report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := a.archiver.Put(name, &buf, int64(buf.Len())); err != nil {
		return "", fmt.Errorf("archiving report: %w", err)
	}

	a.logger.Info("report archived", "name", name, "format", format)
	return name, nil
}

// ArchivedReports lists the report names stored in the archive backend.
func (a *App) ArchivedReports() ([]string, error) {
	return a.archiver.List()
}

// FetchArchivedReport writes a stored report to w, decrypting if the
// archive is configured with encryption.
func (a *App) FetchArchivedReport(name string, w io.Writer) error {
	return a.archiver.Get(name, w)
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
