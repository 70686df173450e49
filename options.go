package bulkmail

import (
	"log/slog"

	"github.com/dmitrymomot/bulkmail/pkg/campaign"
	"github.com/dmitrymomot/bulkmail/pkg/mailer"
	"github.com/dmitrymomot/bulkmail/pkg/storage"
)

// Option configures the App.
type Option func(*App)

// WithLogger sets the run logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithTransport replaces the transport built from the config.
// The App still closes it at the end of Run.
func WithTransport(t mailer.Transport) Option {
	return func(a *App) {
		a.transport = t
	}
}

// WithStorage sets the object store used for s3:// paths and log archiving,
// instead of one built from Config.Storage.
func WithStorage(s *storage.S3) Option {
	return func(a *App) {
		a.store = s
	}
}

// WithSleep replaces the delay function used between sends.
func WithSleep(fn campaign.SleepFunc) Option {
	return func(a *App) {
		a.sleep = fn
	}
}
