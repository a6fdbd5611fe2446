// Command mapview serves the customer map dashboard on an ephemeral
// local port and opens it in the default browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"kolipanel/internal/cli"
	"kolipanel/internal/expense"
	apphttp "kolipanel/internal/http"
	"kolipanel/internal/ledger"
	"kolipanel/internal/store"
	"kolipanel/internal/store/firebase"
	storemem "kolipanel/internal/store/memory"
	"kolipanel/internal/updater"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer startupCancel()

	var st store.Client = firebase.New(cfg.FirebaseDatabaseURL)
	if !cfg.StoreConfigured() || !st.Probe(startupCtx) {
		mirror := cli.InitMirror(logger, cfg.SQLiteDBPath)
		defer mirror.Close()

		sales, syncedAt, err := mirror.LoadSnapshot(startupCtx)
		if err != nil {
			logger.Error("Mirror snapshot unavailable", "error", err)
			os.Exit(1)
		}
		logger.Warn("Remote store unreachable, rendering mirrored ledger",
			"sales", len(sales), "synced_at", syncedAt)

		mem := storemem.New()
		for _, s := range sales {
			if err := mem.Set(startupCtx, "sales/"+s.ID, s); err != nil {
				logger.Error("Seed mirrored sale failed", "error", err, "sale_id", s.ID)
			}
		}
		st = mem
	}

	srv := apphttp.NewServer("127.0.0.1:0", st,
		expense.NewService(st), ledger.NewService(st), updater.New(st, cfg.AppVersion))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		logger.Error("Could not open local port", "error", err)
		os.Exit(1)
	}
	url := fmt.Sprintf("http://%s/", ln.Addr().String())
	fmt.Println("Dashboard running at", url)
	openBrowser(url)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
}

// openBrowser is best effort; the URL is printed either way.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
