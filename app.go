package bulkmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/bulkmail/pkg/campaign"
	"github.com/dmitrymomot/bulkmail/pkg/contacts"
	"github.com/dmitrymomot/bulkmail/pkg/logger"
	"github.com/dmitrymomot/bulkmail/pkg/mailer"
	"github.com/dmitrymomot/bulkmail/pkg/mailer/resend"
	"github.com/dmitrymomot/bulkmail/pkg/mailer/smtp"
	"github.com/dmitrymomot/bulkmail/pkg/oauth"
	"github.com/dmitrymomot/bulkmail/pkg/sanitizer"
	"github.com/dmitrymomot/bulkmail/pkg/storage"
	"github.com/dmitrymomot/bulkmail/pkg/template"
)

// App runs one campaign. It is not safe for concurrent use.
type App struct {
	cfg Config
	log *slog.Logger

	store     *storage.S3
	files     *storage.Files
	transport mailer.Transport
	sleep     campaign.SleepFunc
}

// New creates an App from a validated config.
func New(cfg Config, opts ...Option) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil && cfg.Storage.Enabled() {
		store, err := storage.New(cfg.Storage)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		a.store = store
	}
	a.files = storage.NewFiles(a.store)

	return a, nil
}

// message holds the loaded templates for a run.
type message struct {
	subject  string
	html     string
	text     string
	markdown bool
	// textMissing is set when a text template was configured but could not
	// be read.
	textMissing bool
}

// Run loads templates and contacts, sends the campaign and closes the
// transport. Per-contact failures are counted in the tally, not returned.
func (a *App) Run(ctx context.Context) (campaign.Tally, error) {
	msg, err := a.loadMessage(ctx)
	if err != nil {
		a.log.ErrorContext(ctx, "failed to prepare message", slog.String("error", err.Error()))
		return campaign.Tally{}, err
	}

	list := contacts.Load(ctx, a.log, a.files, a.cfg.ContactSource())
	if len(list) == 0 {
		a.log.ErrorContext(ctx, "no contacts loaded")
		return campaign.Tally{}, ErrNoContacts
	}

	transport, err := a.openTransport(ctx)
	if err != nil {
		a.log.ErrorContext(ctx, "failed to set up transport", slog.String("error", err.Error()))
		return campaign.Tally{}, err
	}
	defer func() {
		if err := transport.Close(); err != nil {
			a.log.WarnContext(ctx, "failed to close transport", slog.String("error", err.Error()))
		}
	}()

	params := campaign.Params{
		From:      a.cfg.From,
		ReplyTo:   a.cfg.ReplyTo,
		Headers:   a.cfg.Headers,
		Tags:      tags(a.cfg.Tags),
		Contacts:  list,
		Subject:   msg.subject,
		HTML:      msg.html,
		Text:      msg.text,
		Delay:     time.Duration(a.cfg.Delay) * time.Second,
		TestMode:  a.cfg.TestMode,
		MaxEmails: a.cfg.MaxEmails,
		Sleep:     a.sleep,
		Logger:    a.log,
	}
	if msg.markdown {
		params.HTMLFilter = template.NewMarkdown().Convert
	}
	if a.cfg.AutoText {
		params.TextFromHTML = sanitizer.PlainText
	}

	tally := campaign.SendBulk(ctx, transport, params)
	if err := ctx.Err(); err != nil {
		return tally, errors.Join(ErrInterrupted, err)
	}
	return tally, nil
}

// loadMessage reads the HTML and optional text templates. A text template
// that fails to load is logged and the run continues without it.
func (a *App) loadMessage(ctx context.Context) (*message, error) {
	html, err := template.Read(ctx, a.files, a.cfg.Template)
	if err != nil {
		return nil, errors.Join(ErrTemplateNotLoaded, err)
	}
	if html == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrTemplateNotLoaded, a.cfg.Template)
	}

	msg := &message{subject: a.cfg.Subject, html: html}
	if template.IsMarkdown(a.cfg.Template) {
		doc, err := template.ParseDocument(html)
		if err != nil {
			return nil, errors.Join(ErrTemplateNotLoaded, err)
		}
		msg.html = doc.Body
		msg.markdown = true
		if msg.subject == "" {
			msg.subject = doc.Subject()
		}
	}
	if msg.subject == "" {
		return nil, fmt.Errorf("%w: no subject given and %s has none in its frontmatter", ErrInvalidConfig, a.cfg.Template)
	}

	if a.cfg.TextTemplate != "" {
		if text, ok := template.Load(ctx, a.log, a.files, a.cfg.TextTemplate); ok {
			msg.text = text
		} else {
			msg.textMissing = true
			a.log.WarnContext(ctx, "continuing without a text part")
		}
	}

	return msg, nil
}

// openTransport returns the injected transport or builds one from config.
func (a *App) openTransport(ctx context.Context) (mailer.Transport, error) {
	if a.transport != nil {
		return a.transport, nil
	}

	switch a.cfg.Provider {
	case ProviderResend:
		s, err := resend.New(a.cfg.Resend)
		if err != nil {
			return nil, errors.Join(ErrTransport, err)
		}
		return s, nil

	case ProviderSMTP, "":
		opts := []smtp.Option{smtp.WithLogger(a.log)}
		if a.cfg.SMTP.Auth == smtp.AuthXOAUTH2 {
			tokens, err := oauth.NewRefreshTokenSource(a.cfg.OAuth)
			if err != nil {
				return nil, errors.Join(ErrTransport, err)
			}
			opts = append(opts, smtp.WithTokenSource(tokens))
		}
		t, err := smtp.New(a.cfg.SMTP, opts...)
		if err != nil {
			return nil, errors.Join(ErrTransport, err)
		}
		return t, nil
	}

	return nil, fmt.Errorf("%w: unknown provider %q", ErrTransport, a.cfg.Provider)
}

func tags(m map[string]string) mailer.Tags {
	if len(m) == 0 {
		return nil
	}
	t := make(mailer.Tags, len(m))
	for k, v := range m {
		t[k] = v
	}
	return t
}
