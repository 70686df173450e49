package bulkmail

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"

	"github.com/dmitrymomot/bulkmail/pkg/contacts"
	"github.com/dmitrymomot/bulkmail/pkg/logger"
	"github.com/dmitrymomot/bulkmail/pkg/mailer/resend"
	"github.com/dmitrymomot/bulkmail/pkg/mailer/smtp"
	"github.com/dmitrymomot/bulkmail/pkg/oauth"
	"github.com/dmitrymomot/bulkmail/pkg/storage"
	"github.com/dmitrymomot/bulkmail/pkg/template"
)

// Transport providers.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// Config holds everything a campaign run needs.
type Config struct {
	Source     string `env:"BULKMAIL_SOURCE" validate:"required"`
	SourceFile string `env:"BULKMAIL_SOURCE_FILE" validate:"required"`
	Query      string `env:"BULKMAIL_QUERY" envDefault:"SELECT * FROM contacts WHERE active = 1"`

	Template     string `env:"BULKMAIL_TEMPLATE" validate:"required"`
	TextTemplate string `env:"BULKMAIL_TEXT_TEMPLATE"`
	// Subject may be empty when a markdown template supplies one.
	Subject  string `env:"BULKMAIL_SUBJECT"`
	From     string `env:"BULKMAIL_FROM" validate:"required"`
	ReplyTo  string `env:"BULKMAIL_REPLY_TO" validate:"omitempty,email"`
	AutoText bool   `env:"BULKMAIL_AUTO_TEXT"`

	// Headers are added to every message; values may use $name placeholders.
	Headers map[string]string `env:"BULKMAIL_HEADERS" envSeparator:";" envKeyValSeparator:"="`
	// Tags are attached to every message by API providers.
	Tags map[string]string `env:"BULKMAIL_TAGS" envKeyValSeparator:"="`

	// Delay between sends, in seconds.
	Delay     int  `env:"BULKMAIL_DELAY" envDefault:"5"`
	MaxEmails *int `env:"BULKMAIL_MAX_EMAILS"`
	TestMode  bool `env:"BULKMAIL_TEST"`

	Provider string `env:"BULKMAIL_PROVIDER" envDefault:"smtp" validate:"required,oneof=smtp resend"`

	// CheckOnly runs preflight checks instead of sending.
	CheckOnly bool `env:"-"`

	SMTP    smtp.Config
	Resend  resend.Config
	OAuth   oauth.Config
	Storage storage.Config
	Log     logger.Config
}

// ContactSource returns the contact source described by the config.
func (c *Config) ContactSource() contacts.Source {
	return contacts.Source{
		Kind:  contacts.Kind(c.Source),
		Path:  c.SourceFile,
		Query: c.Query,
	}
}

// ParseConfig reads environ, then applies command-line flags on top.
// It returns pflag.ErrHelp when usage was requested.
func ParseConfig(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	fs := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if fs.Changed("max-emails") {
		n, _ := fs.GetInt("max-emails")
		cfg.MaxEmails = &n
	}
	if fs.Changed("smtp-password") {
		cfg.SMTP.Password, _ = fs.GetString("smtp-password")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("bulkmail", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVar(&cfg.Source, "source", cfg.Source, "contact source: csv, sqlite or postgres")
	fs.StringVar(&cfg.SourceFile, "source-file", cfg.SourceFile, "CSV file, SQLite database, s3://key or PostgreSQL URL")
	fs.StringVar(&cfg.Query, "query", cfg.Query, "SQL query for relational sources")
	fs.StringVar(&cfg.Template, "template", cfg.Template, "HTML (or .md) message template")
	fs.StringVar(&cfg.TextTemplate, "text-template", cfg.TextTemplate, "plain text message template")
	fs.StringVar(&cfg.Subject, "subject", cfg.Subject, "subject template")
	fs.StringVar(&cfg.From, "from", cfg.From, "sender address")
	fs.StringVar(&cfg.ReplyTo, "reply-to", cfg.ReplyTo, "reply-to address")
	fs.StringToStringVar(&cfg.Headers, "header", cfg.Headers, "extra header as name=value, repeatable")
	fs.StringToStringVar(&cfg.Tags, "tag", cfg.Tags, "provider tag as name=value, repeatable (resend only)")
	fs.BoolVar(&cfg.AutoText, "auto-text", cfg.AutoText, "derive the text part from HTML when no text template is given")

	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "transport: smtp or resend")
	fs.StringVar(&cfg.SMTP.Host, "smtp-server", cfg.SMTP.Host, "SMTP server host")
	fs.IntVar(&cfg.SMTP.Port, "smtp-port", cfg.SMTP.Port, "SMTP server port")
	fs.StringVar(&cfg.SMTP.Username, "smtp-user", cfg.SMTP.Username, "SMTP username")
	fs.String("smtp-password", "", "SMTP password (prefer SMTP_PASSWORD)")
	fs.StringVar(&cfg.SMTP.Auth, "smtp-auth", cfg.SMTP.Auth, "SMTP auth: plain or xoauth2")

	fs.IntVar(&cfg.Delay, "delay", cfg.Delay, "seconds to wait between sends")
	fs.Int("max-emails", 0, "maximum number of contacts to process")
	fs.BoolVar(&cfg.TestMode, "test", cfg.TestMode, "test mode: process at most 3 contacts")

	fs.StringVar(&cfg.Log.FilePath, "log-file", cfg.Log.FilePath, "log file, appended to")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "run preflight checks and exit without sending")

	return fs
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required fields and provider-specific settings.
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return errors.Join(ErrInvalidConfig, describe(verrs))
		}
		return errors.Join(ErrInvalidConfig, err)
	}

	kind, err := contacts.ParseKind(c.Source)
	if err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	c.Source = string(kind)

	for name := range c.Headers {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, ": \t\r\n") {
			return fmt.Errorf("%w: invalid header name %q", ErrInvalidConfig, name)
		}
	}

	if c.Subject == "" && !template.IsMarkdown(c.Template) {
		return fmt.Errorf("%w: subject is required", ErrInvalidConfig)
	}

	switch c.Provider {
	case ProviderSMTP:
		if c.SMTP.Host == "" {
			return fmt.Errorf("%w: smtp server is required", ErrInvalidConfig)
		}
		if c.SMTP.Username == "" {
			return fmt.Errorf("%w: smtp user is required", ErrInvalidConfig)
		}
		if c.SMTP.Auth == smtp.AuthPlain && c.SMTP.Password == "" {
			return fmt.Errorf("%w: smtp password is required for plain auth", ErrInvalidConfig)
		}
	case ProviderResend:
		if c.Resend.APIKey == "" {
			return fmt.Errorf("%w: RESEND_API_KEY is required for the resend provider", ErrInvalidConfig)
		}
	}

	if (storage.IsRemote(c.SourceFile) || storage.IsRemote(c.Template) || storage.IsRemote(c.TextTemplate)) &&
		!c.Storage.Enabled() {
		return fmt.Errorf("%w: s3:// paths require S3_BUCKET", ErrInvalidConfig)
	}
	return nil
}

func describe(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be an email address, got %q", fe.Field(), fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
