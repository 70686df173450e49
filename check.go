package bulkmail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/bulkmail/pkg/contacts"
	"github.com/dmitrymomot/bulkmail/pkg/health"
	"github.com/dmitrymomot/bulkmail/pkg/mailer"
	"github.com/dmitrymomot/bulkmail/pkg/storage"
	"github.com/dmitrymomot/bulkmail/pkg/template"
)

const checkTimeout = 30 * time.Second

// Check verifies templates, contacts, the transport and object storage
// concurrently without sending anything. Templates and contacts are read
// once and shared between the checks that need them.
func (a *App) Check(ctx context.Context) *health.Report {
	loadCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	load := sync.OnceValues(func() (*message, error) { return a.loadMessage(loadCtx) })
	read := sync.OnceValues(func() ([]contacts.Contact, error) {
		return contacts.Read(loadCtx, a.files, a.cfg.ContactSource())
	})

	checks := health.Checks{
		"template":     func(context.Context) error { return checkTemplate(load) },
		"source":       func(context.Context) error { return checkSource(read) },
		"placeholders": func(context.Context) error { return checkPlaceholders(load, read) },
	}
	checks[a.providerName()] = a.checkTransport
	if a.store != nil {
		checks["s3"] = a.checkStorage
	}
	return health.Run(ctx, checks, health.WithTimeout(checkTimeout), health.WithLogger(a.log))
}

func (a *App) providerName() string {
	if a.cfg.Provider == "" {
		return ProviderSMTP
	}
	return a.cfg.Provider
}

func checkTemplate(load func() (*message, error)) error {
	msg, err := load()
	if err != nil {
		return err
	}
	if msg.textMissing {
		return fmt.Errorf("%w: text template could not be read", ErrTemplateNotLoaded)
	}
	return nil
}

func checkSource(read func() ([]contacts.Contact, error)) error {
	list, err := read()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return ErrNoContacts
	}
	missing := 0
	for _, c := range list {
		if c.Email() == "" {
			missing++
		}
	}
	if missing == len(list) {
		return fmt.Errorf("%w: no contact has an %q field", ErrNoContacts, contacts.EmailField)
	}
	return nil
}

// checkPlaceholders fails when a template uses a placeholder that no contact
// column provides, since it would be sent literally.
func checkPlaceholders(load func() (*message, error), read func() ([]contacts.Contact, error)) error {
	msg, err := load()
	if err != nil {
		return err
	}
	list, err := read()
	if err != nil {
		return err
	}

	columns := make(map[string]struct{})
	for _, c := range list {
		for k := range c {
			columns[k] = struct{}{}
		}
	}

	var unknown []string
	for _, name := range template.Placeholders(msg.subject + "\n" + msg.html + "\n" + msg.text) {
		if _, ok := columns[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlaceholder, strings.Join(unknown, ", "))
	}
	return nil
}

func (a *App) checkTransport(ctx context.Context) error {
	t, err := a.openTransport(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = t.Close() }()

	p, ok := t.(mailer.Pinger)
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}

func (a *App) checkStorage(ctx context.Context) error {
	var errs []error
	for _, path := range []string{a.cfg.SourceFile, a.cfg.Template, a.cfg.TextTemplate} {
		if !storage.IsRemote(path) {
			continue
		}
		if _, err := a.files.Stat(ctx, path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}
