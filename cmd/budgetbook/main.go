package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetbook/internal/config"
	apphttp "budgetbook/internal/http"
	applog "budgetbook/internal/log"
	"budgetbook/internal/middleware/ratelimit"
	"budgetbook/internal/reconcile"
	"budgetbook/internal/session"
	ports "budgetbook/internal/sheets"
	gsheet "budgetbook/internal/sheets/google"
	"budgetbook/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	level, _ := cfg.SlogLevel()
	logger := applog.New(applog.Config{
		Level:   level,
		Handler: slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}
	weekStart, _ := cfg.WeekStartDay()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.NewSQLite(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open local store", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Store close error", applog.FieldError, err)
		}
	}()

	sess := session.Restore(ctx, st, []byte(cfg.SessionSecret))

	var sheet ports.Client
	if cfg.SheetsConfigured() {
		cli, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			APIKey:        cfg.GoogleAPIKey,
			Timeout:       cfg.SheetTimeout,
		}, sess)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		sheet = cli
		logger.Info("Google Sheets backend configured",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"oauth_connected", sess.SheetsConnected())
	} else {
		logger.Info("No spreadsheet configured, running local-only")
	}

	rec := reconcile.New(st, sheet, logger, weekStart)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		ReportCacheTTL: cfg.ReportCacheTTL,
		ReportCacheMax: cfg.ReportCacheMax,
		RateLimit:      ratelimit.DefaultConfig(),
	}, rec, sess, st, logger)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting budgetbook server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
