package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel selects which records become Sentry logs: warn (default) or error.
	MinLevel slog.Level `env:"-"`
}

const sentryFlushTimeout = 2 * time.Second

// newSentryHandler initializes the Sentry SDK and returns a handler forwarding
// warnings and errors. ok is false when the DSN is empty or init fails; the
// failure is reported through fallback so it still reaches the operator.
func newSentryHandler(cfg SentryConfig, fallback slog.Handler) (h slog.Handler, flush func(), ok bool) {
	if cfg.DSN == "" {
		return nil, nil, false
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(fallback).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return nil, nil, false
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	h = sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError}, // errors create Issues
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return h, func() { sentry.Flush(sentryFlushTimeout) }, true
}
