package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/bulkmail/pkg/logger"
)

const (
	defaultTimeout = 30 * time.Second

	// StatusHealthy indicates the check passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates the check failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc is a single named check.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named health check functions.
type Checks map[string]CheckFunc

// Check is the outcome of one check.
type Check struct {
	Name     string
	Status   string
	Err      error
	Duration time.Duration
}

// Report holds the outcome of every check, ordered by name.
type Report struct {
	Status string
	Checks []Check
}

// Err returns nil when every check passed, otherwise ErrCheckFailed joined
// with each failing check's error.
func (r *Report) Err() error {
	var errs []error
	for _, c := range r.Checks {
		if c.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, c.Err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrCheckFailed}, errs...)...)
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures health check behavior.
type Option func(*config)

// WithTimeout sets the timeout shared by all checks.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used to report each result.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  logger.NewNope(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes all checks in parallel and returns the aggregated report.
func Run(ctx context.Context, checks Checks, opts ...Option) *Report {
	cfg := newConfig(opts...)

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make([]Check, 0, len(checks))
	)

	for name, check := range checks {
		g.Go(func() error {
			start := time.Now()
			err := check(ctx)
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = errors.Join(ErrCheckTimeout, err)
			}

			result := Check{Name: name, Status: StatusHealthy, Err: err, Duration: time.Since(start)}
			if err != nil {
				result.Status = StatusUnhealthy
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.Duration("duration", result.Duration),
					slog.String("error", err.Error()),
				)
			} else {
				cfg.logger.InfoContext(ctx, "health check passed",
					slog.String("check", name),
					slog.Duration("duration", result.Duration),
				)
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	slices.SortFunc(results, func(a, b Check) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})

	status := StatusHealthy
	for _, r := range results {
		if r.Err != nil {
			status = StatusUnhealthy
			break
		}
	}

	return &Report{Status: status, Checks: results}
}
