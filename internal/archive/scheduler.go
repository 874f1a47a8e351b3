package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the runner on a fixed timetable: the archive batch on the
// first of each month (for the month that just ended) and the expiry sweep
// daily.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner

	// spec strings are configurable for tests and deployments in other
	// timezones; zero values fall back to the defaults below.
	ArchiveSpec string
	SweepSpec   string
}

const (
	defaultArchiveSpec = "0 4 1 * *" // 04:00 on the 1st
	defaultSweepSpec   = "30 4 * * *" // 04:30 daily
)

// NewScheduler creates a Scheduler around the given runner.
func NewScheduler(runner *Runner) *Scheduler {
	return &Scheduler{cron: cron.New(), runner: runner}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	archiveSpec := s.ArchiveSpec
	if archiveSpec == "" {
		archiveSpec = defaultArchiveSpec
	}
	sweepSpec := s.SweepSpec
	if sweepSpec == "" {
		sweepSpec = defaultSweepSpec
	}

	if _, err := s.cron.AddFunc(archiveSpec, s.runMonthly); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(sweepSpec, s.runSweep); err != nil {
		return err
	}

	s.cron.Start()
	slog.Info("Archive scheduler started", "archive_spec", archiveSpec, "sweep_spec", sweepSpec)
	return nil
}

// Stop stops the cron loop; jobs already running finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runMonthly() {
	// On the 1st we archive the month that just ended.
	year, month := previousMonth(s.runner.now())

	slog.Info("Executing scheduled monthly archive", "year", year, "month", month)
	report, err := s.runner.RunAll(context.Background(), year, month)
	if err != nil {
		slog.Error("Scheduled monthly archive failed", "error", err)
		return
	}
	if failed := report.Failed(); failed > 0 {
		slog.Warn("Scheduled monthly archive had failing groups",
			"archive_id", report.ArchiveID,
			"failed", failed,
		)
	}
}

func (s *Scheduler) runSweep() {
	purged, err := s.runner.SweepExpired(context.Background())
	if err != nil {
		slog.Error("Expiry sweep failed", "error", err, "purged_before_failure", purged)
		return
	}
	if purged > 0 {
		slog.Info("Expiry sweep complete", "purged", purged)
	}
}

func previousMonth(now time.Time) (year int, month int) {
	prev := now.AddDate(0, 0, -now.Day()) // last day of the previous month
	return prev.Year(), int(prev.Month())
}
