package campaign

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/bulkmail/pkg/contacts"
	"github.com/dmitrymomot/bulkmail/pkg/logger"
	"github.com/dmitrymomot/bulkmail/pkg/mailer"
	"github.com/dmitrymomot/bulkmail/pkg/template"
)

// TestModeLimit is the most contacts processed in test mode.
const TestModeLimit = 3

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Params configures a bulk send.
type Params struct {
	From     string
	Contacts []contacts.Contact

	// Subject, HTML and Text are templates with $name placeholders.
	// An empty Text means no plain text alternative.
	Subject string
	HTML    string
	Text    string

	Delay    time.Duration
	TestMode bool
	// MaxEmails caps the number of contacts processed. Nil means no cap.
	MaxEmails *int

	// HTMLFilter, if set, post-processes the personalized HTML body, for
	// example to convert markdown. An error fails that contact.
	HTMLFilter func(string) (string, error)
	// TextFromHTML, if set and Text is empty, derives the text alternative
	// from the final HTML body.
	TextFromHTML func(string) string

	ReplyTo string
	// Header values are templates, personalized per contact.
	Headers map[string]string
	Tags    mailer.Tags

	// Sleep defaults to a context-aware timer.
	Sleep  SleepFunc
	Logger *slog.Logger
}

// Tally counts outcomes. Sent + Failed equals the number of contacts iterated.
type Tally struct {
	Sent   int
	Failed int
}

// Processed returns Sent + Failed.
func (t Tally) Processed() int {
	return t.Sent + t.Failed
}

// Limit returns how many contacts may be processed from a list of n.
// A negative maxEmails counts as zero.
func Limit(n int, maxEmails *int, testMode bool) int {
	limit := n
	if maxEmails != nil {
		limit = min(n, max(*maxEmails, 0))
	}
	if testMode {
		limit = min(limit, TestModeLimit)
	}
	return limit
}

// SendBulk delivers one message per contact and returns the tally.
func SendBulk(ctx context.Context, sender mailer.Sender, p Params) Tally {
	log := p.Logger
	if log == nil {
		log = logger.NewNope()
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	total := Limit(len(p.Contacts), p.MaxEmails, p.TestMode)
	if p.TestMode && (p.MaxEmails == nil || *p.MaxEmails > TestModeLimit) {
		log.InfoContext(ctx, "test mode enabled, sending limited", slog.Int("limit", TestModeLimit))
	}
	log.InfoContext(ctx, "starting bulk send", slog.Int("total", total))

	var tally Tally
	for i := range total {
		if err := ctx.Err(); err != nil {
			log.WarnContext(ctx, "bulk send interrupted",
				slog.Int("remaining", total-i),
				slog.String("error", err.Error()),
			)
			break
		}

		contact := p.Contacts[i]
		email, err := p.build(contact)
		if err != nil {
			log.ErrorContext(ctx, "failed to personalize message",
				slog.Int("contact", i+1),
				slog.String("error", err.Error()),
			)
			tally.Failed++
			continue
		}

		if len(email.To) == 0 {
			log.WarnContext(ctx, "contact has no email address, skipped", slog.Int("contact", i+1))
			tally.Failed++
			continue
		}

		recipient := email.To[0]
		if email.HTML == "" && email.Text == "" {
			log.WarnContext(ctx, "message body is empty", slog.String("recipient", recipient))
		}
		if err := sender.Send(ctx, email); err != nil {
			log.ErrorContext(ctx, "failed to send email",
				slog.String("recipient", recipient),
				slog.String("error", err.Error()),
			)
			tally.Failed++
		} else {
			log.InfoContext(ctx, "email sent", slog.String("recipient", recipient))
			tally.Sent++
		}

		if i < total-1 && p.Delay > 0 {
			if err := sleep(ctx, p.Delay); err != nil {
				log.WarnContext(ctx, "bulk send interrupted",
					slog.Int("remaining", total-i-1),
					slog.String("error", err.Error()),
				)
				break
			}
		}
	}

	log.InfoContext(ctx, "bulk send finished",
		slog.Int("sent", tally.Sent),
		slog.Int("failed", tally.Failed),
	)
	return tally
}

// build personalizes every part of the message for one contact. The
// returned email has no recipient when the contact has no address.
func (p *Params) build(c contacts.Contact) (*mailer.Email, error) {
	email := &mailer.Email{
		From:    p.From,
		Subject: template.Personalize(p.Subject, c),
		HTML:    template.Personalize(p.HTML, c),
		ReplyTo: p.ReplyTo,
		Tags:    p.Tags,
	}
	if len(p.Headers) > 0 {
		email.Headers = make(map[string]string, len(p.Headers))
		for k, v := range p.Headers {
			email.Headers[k] = template.Personalize(v, c)
		}
	}
	if p.Text != "" {
		email.Text = template.Personalize(p.Text, c)
	}

	if p.HTMLFilter != nil {
		html, err := p.HTMLFilter(email.HTML)
		if err != nil {
			return nil, err
		}
		email.HTML = html
	}
	if email.Text == "" && p.TextFromHTML != nil {
		email.Text = p.TextFromHTML(email.HTML)
	}

	if addr := c.Email(); addr != "" {
		email.To = []string{addr}
	}
	return email, nil
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
