package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bulkmail/pkg/health"
)

func TestRun_AllHealthy(t *testing.T) {
	t.Parallel()

	report := health.Run(context.Background(), health.Checks{
		"smtp":     func(context.Context) error { return nil },
		"template": func(context.Context) error { return nil },
	})

	require.NoError(t, report.Err())
	assert.Equal(t, health.StatusHealthy, report.Status)
	require.Len(t, report.Checks, 2)
	assert.Equal(t, "smtp", report.Checks[0].Name)
	assert.Equal(t, "template", report.Checks[1].Name)
}

func TestRun_NoChecks(t *testing.T) {
	t.Parallel()

	report := health.Run(context.Background(), nil)
	require.NoError(t, report.Err())
	assert.Equal(t, health.StatusHealthy, report.Status)
	assert.Empty(t, report.Checks)
}

func TestRun_FailureDoesNotHideOthers(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	report := health.Run(context.Background(), health.Checks{
		"source": func(context.Context) error { return nil },
		"smtp":   func(context.Context) error { return boom },
	})

	assert.Equal(t, health.StatusUnhealthy, report.Status)
	require.Len(t, report.Checks, 2)

	assert.Equal(t, "smtp", report.Checks[0].Name)
	assert.Equal(t, health.StatusUnhealthy, report.Checks[0].Status)
	assert.Equal(t, health.StatusHealthy, report.Checks[1].Status)

	err := report.Err()
	require.ErrorIs(t, err, health.ErrCheckFailed)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "smtp: connection refused")
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()

	report := health.Run(context.Background(), health.Checks{
		"slow": func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}, health.WithTimeout(20*time.Millisecond))

	require.Len(t, report.Checks, 1)
	require.ErrorIs(t, report.Checks[0].Err, health.ErrCheckTimeout)
	require.ErrorIs(t, report.Err(), context.DeadlineExceeded)
}
