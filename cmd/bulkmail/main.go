// Command bulkmail sends a personalized email to every contact in a CSV file,
// SQLite database or PostgreSQL query.
//
// Usage:
//
//	bulkmail --source csv --source-file contacts.csv \
//		--template welcome.html --subject 'Hello $name' \
//		--from news@example.com \
//		--smtp-server smtp.example.com --smtp-user news@example.com \
//		--test
//
// Every flag can also be set through the environment or a .env file in the
// working directory. Run with --check to verify the configuration without
// sending anything.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/dmitrymomot/bulkmail"
	"github.com/dmitrymomot/bulkmail/pkg/id"
	"github.com/dmitrymomot/bulkmail/pkg/logger"
)

const archiveTimeout = time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	start := time.Now()

	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := bulkmail.ParseConfig(os.Args[1:], env.ToMap(os.Environ()))
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, closeLog, err := logger.New(cfg.Log, logger.RunIDExtractor())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = closeLog() }()

	runID := id.NewULID()
	ctx, stop := signal.NotifyContext(id.WithRunID(context.Background(), runID), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bulkmail.New(*cfg, bulkmail.WithLogger(log))
	if err != nil {
		log.ErrorContext(ctx, "failed to initialize", slog.String("error", err.Error()))
		return 1
	}

	if cfg.CheckOnly {
		report := app.Check(ctx)
		log.InfoContext(ctx, "preflight finished", slog.String("status", report.Status))
		if report.Err() != nil {
			return 1
		}
		return 0
	}

	code := 0
	tally, err := app.Run(ctx)
	switch {
	case errors.Is(err, bulkmail.ErrInterrupted):
		log.WarnContext(ctx, "run interrupted",
			slog.Int("sent", tally.Sent),
			slog.Int("failed", tally.Failed),
		)
		code = 1
	case err != nil:
		code = 1
	}

	log.InfoContext(ctx, "execution finished", slog.Duration("duration", time.Since(start)))

	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if err := app.ArchiveLog(archiveCtx, cfg.Log.FilePath, runID); err != nil {
		log.WarnContext(ctx, "failed to archive log", slog.String("error", err.Error()))
	}

	return code
}
