package smtp

import "time"

// Auth mechanisms.
const (
	AuthPlain   = "plain"   // username + password, mechanism auto-discovered
	AuthXOAUTH2 = "xoauth2" // username + OAuth2 access token
)

// TLS policies.
const (
	TLSAuto          = "auto"          // 465 implicit TLS, 25 opportunistic, otherwise STARTTLS required
	TLSMandatory     = "mandatory"     // STARTTLS required
	TLSOpportunistic = "opportunistic" // STARTTLS when offered
	TLSImplicit      = "ssl"           // implicit TLS (SMTPS)
)

// Config holds SMTP relay connection parameters.
// Embed this in the app config for env parsing with caarlos0/env.
type Config struct {
	Host     string        `env:"SMTP_SERVER"`
	Username string        `env:"SMTP_USER"`
	Password string        `env:"SMTP_PASSWORD"`
	Auth     string        `env:"SMTP_AUTH" envDefault:"plain"`
	TLS      string        `env:"SMTP_TLS" envDefault:"auto"`
	Port     int           `env:"SMTP_PORT" envDefault:"587"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
}
