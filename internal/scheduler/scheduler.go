// Package scheduler runs the periodic background jobs: mirroring the
// ledger to SQLite and, when configured, exporting it to Google Sheets.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"kolipanel/internal/core"
	"kolipanel/internal/ledger"
	"kolipanel/internal/log"
	"kolipanel/internal/sheets"
	"kolipanel/internal/storage"
	"kolipanel/internal/store"
)

const jobTimeout = 2 * time.Minute

type Scheduler struct {
	cron     *cron.Cron
	store    store.Client
	ledger   *ledger.Service
	mirror   *storage.Mirror
	exporter sheets.SaleSyncer
	logger   *log.Logger
}

// New creates a scheduler. The exporter may be nil when no spreadsheet
// is configured.
func New(st store.Client, led *ledger.Service, mirror *storage.Mirror, exporter sheets.SaleSyncer, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentScheduler)
	}
	return &Scheduler{
		cron:     cron.New(),
		store:    st,
		ledger:   led,
		mirror:   mirror,
		exporter: exporter,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
// refreshInterval drives the mirror sync; exportSchedule is a standard
// cron spec for the Sheets export.
func (s *Scheduler) Start(refreshInterval time.Duration, exportSchedule string) error {
	s.logger.Info("Starting scheduler",
		"refresh_interval", refreshInterval.String(),
		"export_enabled", s.exporter != nil)

	spec := fmt.Sprintf("@every %s", refreshInterval)
	if _, err := s.cron.AddFunc(spec, s.syncMirror); err != nil {
		return fmt.Errorf("schedule mirror sync: %w", err)
	}

	if s.exporter != nil {
		if _, err := s.cron.AddFunc(exportSchedule, s.exportLedger); err != nil {
			return fmt.Errorf("schedule ledger export: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron loop; running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// SyncMirrorNow runs one mirror sync outside the schedule. Used at
// startup so the mirror is fresh before the first tick.
func (s *Scheduler) SyncMirrorNow(ctx context.Context) error {
	return s.syncOnce(ctx)
}

func (s *Scheduler) syncMirror() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.syncOnce(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Mirror sync failed", log.FieldError, err)
	}
}

func (s *Scheduler) syncOnce(ctx context.Context) error {
	if !s.store.Probe(ctx) {
		return fmt.Errorf("remote store unreachable")
	}
	sales := s.ledger.ListAll(ctx)
	if err := s.mirror.ReplaceSnapshot(ctx, sales, time.Now()); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "Mirror synced", "sales", len(sales))
	return nil
}

func (s *Scheduler) exportLedger() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.ExportNow(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Ledger export failed", log.FieldError, err)
	}
}

// ExportNow pushes the full ledger to the export sheet, oldest first.
func (s *Scheduler) ExportNow(ctx context.Context) error {
	if s.exporter == nil {
		return nil
	}
	sales := s.ledger.ListChronological(ctx)
	ordered := make([]core.Sale, len(sales))
	for i, sale := range sales {
		// Chronological list is newest first; the sheet reads oldest first.
		ordered[len(sales)-1-i] = sale
	}
	if err := s.exporter.SyncAll(ctx, ordered); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Ledger exported", "sales", len(ordered))
	return nil
}
