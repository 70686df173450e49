// Package logger builds the process-wide structured logger for a bulk send run.
//
// A run logs every line twice: to standard output for the operator watching the
// terminal and to an append-only log file that survives the process. Both
// destinations receive the same records through an internal fan-out handler.
// Records are enriched with values extracted from the context (the run ID by
// default), and error-level records can additionally be shipped to Sentry.
//
// # Usage
//
//	log, closeLog, err := logger.New(logger.Config{
//		FilePath: "email_sender.log",
//		Level:    "info",
//	}, logger.RunIDExtractor())
//	if err != nil {
//		return err
//	}
//	defer closeLog()
//
//	ctx := id.WithRunID(context.Background(), id.NewULID())
//	log.InfoContext(ctx, "starting bulk send", slog.Int("total", 42))
//
// The logger is created once in main and passed to every component; library
// packages never reach for slog.Default.
//
// # Sentry
//
// When [SentryConfig.DSN] is set, warnings and errors are forwarded to Sentry.
// An empty DSN or a failed SDK initialization silently falls back to the local
// destinations so the same code path works on a laptop and in CI.
package logger
