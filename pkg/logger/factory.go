package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger configuration.
// Embed this in the app config for env parsing with caarlos0/env.
type Config struct {
	// FilePath is the append-only log file. Empty disables file output.
	FilePath string `env:"BULKMAIL_LOG_FILE" envDefault:"email_sender.log"`
	Level    string `env:"LOG_LEVEL" envDefault:"info"`
	// Format selects the line encoding: "text" (key=value) or "json".
	Format string `env:"LOG_FORMAT" envDefault:"text"`

	Sentry SentryConfig

	// Stdout overrides the console destination (tests). Defaults to os.Stdout.
	Stdout io.Writer `env:"-"`
}

// New creates the run logger writing to stdout and to cfg.FilePath.
// The returned close function flushes Sentry and closes the log file;
// it is safe to call more than once.
func New(cfg Config, extractors ...ContextExtractor) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	handlers := []slog.Handler{newHandler(cfg.Format, stdout, opts)}

	var file *os.File
	if cfg.FilePath != "" {
		file, err = os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Join(ErrOpenLogFile, err)
		}
		handlers = append(handlers, newHandler(cfg.Format, file, opts))
	}

	flushSentry := func() {}
	if sentryHandler, flush, ok := newSentryHandler(cfg.Sentry, handlers[0]); ok {
		handlers = append(handlers, sentryHandler)
		flushSentry = flush
	}

	closed := false
	closeFn := func() error {
		if closed {
			return nil
		}
		closed = true
		flushSentry()
		if file != nil {
			return file.Close()
		}
		return nil
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = newMultiHandler(handlers...)
	}

	return slog.New(NewLogHandlerDecorator(h, extractors...)), closeFn, nil
}

// ParseLevel converts a level name (debug, info, warn, error) to slog.Level.
// An empty name means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

func newHandler(format string, w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
