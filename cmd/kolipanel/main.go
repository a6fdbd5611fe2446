package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"kolipanel/internal/cli"
	"kolipanel/internal/expense"
	apphttp "kolipanel/internal/http"
	"kolipanel/internal/ledger"
	"kolipanel/internal/scheduler"
	"kolipanel/internal/sheets"
	gsheet "kolipanel/internal/sheets/google"
	"kolipanel/internal/store"
	"kolipanel/internal/store/firebase"
	storemem "kolipanel/internal/store/memory"
	"kolipanel/internal/updater"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	mirror := cli.InitMirror(logger, cfg.SQLiteDBPath)
	defer mirror.Close()

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer startupCancel()

	var st store.Client = firebase.New(cfg.FirebaseDatabaseURL)
	online := cfg.StoreConfigured() && st.Probe(startupCtx)
	if !online {
		// Serve the last mirrored ledger read-only until the store is back.
		sales, syncedAt, err := mirror.LoadSnapshot(startupCtx)
		if err != nil {
			logger.Error("Mirror snapshot unavailable", "error", err)
			os.Exit(1)
		}
		logger.Warn("Remote store unreachable, serving mirrored ledger",
			"sales", len(sales), "synced_at", syncedAt)

		mem := storemem.New()
		for _, s := range sales {
			if err := mem.Set(startupCtx, "sales/"+s.ID, s); err != nil {
				logger.Error("Seed mirrored sale failed", "error", err, "sale_id", s.ID)
			}
		}
		st = mem
	}

	expenses := expense.NewService(st)
	sales := ledger.NewService(st)
	upd := updater.New(st, cfg.AppVersion)

	if online {
		if err := expenses.EnsureDefaults(startupCtx); err != nil {
			logger.Warn("Could not seed expense defaults", "error", err)
		}
	}

	var exporter sheets.SaleSyncer
	if online && cfg.ExportEnabled() {
		cliSheets, err := gsheet.NewFromEnv(startupCtx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = cliSheets
		logger.Info("Sheets export enabled", "sheet", cfg.GoogleSheetName)
	}

	var sched *scheduler.Scheduler
	if online {
		sched = scheduler.New(st, sales, mirror, exporter, nil)
		if err := sched.SyncMirrorNow(startupCtx); err != nil {
			logger.Warn("Initial mirror sync failed", "error", err)
		}
		if err := sched.Start(cfg.RefreshInterval, cfg.ExportSchedule); err != nil {
			logger.Error("Scheduler start failed", "error", err)
			os.Exit(1)
		}
		defer sched.Stop()
	}

	srv := apphttp.NewServer(":"+cfg.Port, st, expenses, sales, upd)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting kolipanel server",
			"port", cfg.Port, "version", cfg.AppVersion, "online", online)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}
