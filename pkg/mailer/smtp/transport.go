package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/bulkmail/pkg/logger"
	"github.com/dmitrymomot/bulkmail/pkg/mailer"
)

// TokenSource supplies OAuth2 access tokens for XOAUTH2 authentication.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Session is the subset of *mail.Client used once connected.
type Session interface {
	Send(messages ...*mail.Msg) error
	Close() error
}

// Dialer opens an SMTP session with the given client options.
type Dialer func(ctx context.Context, host string, opts ...mail.Option) (Session, error)

func dialClient(ctx context.Context, host string, opts ...mail.Option) (Session, error) {
	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// Transport implements mailer.Transport over one SMTP session.
//
// The session is opened lazily by the first Send. After a connection-level
// failure the session is dropped and the next Send dials again; rejections of
// an individual sender or recipient keep the session open.
type Transport struct {
	cfg     Config
	log     *slog.Logger
	tokens  TokenSource
	dial    Dialer
	session Session
}

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger for session lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.log = l
		}
	}
}

// WithTokenSource sets the OAuth2 token source used when Auth is xoauth2.
func WithTokenSource(ts TokenSource) Option {
	return func(t *Transport) {
		t.tokens = ts
	}
}

// WithDialer replaces the function that opens the SMTP session.
func WithDialer(d Dialer) Option {
	return func(t *Transport) {
		if d != nil {
			t.dial = d
		}
	}
}

// New creates an SMTP transport. No connection is made until the first Send.
func New(cfg Config, opts ...Option) (*Transport, error) {
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}
	if cfg.Auth == "" {
		cfg.Auth = AuthPlain
	}
	if cfg.TLS == "" {
		cfg.TLS = TLSAuto
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	t := &Transport{
		cfg:  cfg,
		log:  logger.NewNope(),
		dial: dialClient,
	}
	for _, opt := range opts {
		opt(t)
	}

	switch cfg.Auth {
	case AuthPlain:
	case AuthXOAUTH2:
		if t.tokens == nil {
			return nil, ErrNoTokens
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuth, cfg.Auth)
	}
	if _, err := tlsOptions(cfg); err != nil {
		return nil, err
	}

	return t, nil
}

// Send delivers one email, connecting first if no session is open.
func (t *Transport) Send(ctx context.Context, email *mailer.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}

	msg, err := buildMessage(email)
	if err != nil {
		return err
	}

	if t.session == nil {
		if err := t.connect(ctx); err != nil {
			return err
		}
	}

	if err := t.session.Send(msg); err != nil {
		if !isRecipientError(err) {
			t.drop()
		}
		return errors.Join(mailer.ErrSendFailed, err)
	}

	return nil
}

// Ping opens and immediately closes a session to verify connectivity and
// credentials. It does not affect the transport's own session.
func (t *Transport) Ping(ctx context.Context) error {
	s, err := t.open(ctx)
	if err != nil {
		return err
	}
	return s.Close()
}

// Close ends the SMTP session if one is open.
func (t *Transport) Close() error {
	if t.session == nil {
		return nil
	}
	err := t.session.Close()
	t.session = nil
	if err != nil {
		t.log.Warn("smtp: error while closing session", slog.String("error", err.Error()))
		return err
	}
	t.log.Info("smtp: session closed", slog.String("host", t.cfg.Host))
	return nil
}

// Connected reports whether a session is currently open.
func (t *Transport) Connected() bool {
	return t.session != nil
}

func (t *Transport) connect(ctx context.Context) error {
	s, err := t.open(ctx)
	if err != nil {
		t.log.ErrorContext(ctx, "smtp: connection failed",
			slog.String("host", t.cfg.Host),
			slog.Int("port", t.cfg.Port),
			slog.String("error", err.Error()),
		)
		return err
	}
	t.session = s
	t.log.InfoContext(ctx, "smtp: session established",
		slog.String("host", t.cfg.Host),
		slog.Int("port", t.cfg.Port),
	)
	return nil
}

func (t *Transport) open(ctx context.Context) (Session, error) {
	opts, err := t.clientOptions(ctx)
	if err != nil {
		return nil, errors.Join(mailer.ErrConnectFailed, err)
	}
	s, err := t.dial(ctx, t.cfg.Host, opts...)
	if err != nil {
		return nil, errors.Join(mailer.ErrConnectFailed, err)
	}
	return s, nil
}

// drop discards a session that is no longer usable.
func (t *Transport) drop() {
	if t.session == nil {
		return
	}
	_ = t.session.Close()
	t.session = nil
	t.log.Warn("smtp: session dropped, will reconnect on next send", slog.String("host", t.cfg.Host))
}

// clientOptions returns go-mail client options based on configuration.
func (t *Transport) clientOptions(ctx context.Context) ([]mail.Option, error) {
	opts := []mail.Option{
		mail.WithPort(t.cfg.Port),
	}
	if t.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(t.cfg.Timeout))
	}

	tlsOpts, err := tlsOptions(t.cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, tlsOpts...)

	switch t.cfg.Auth {
	case AuthXOAUTH2:
		token, err := t.tokens.AccessToken(ctx)
		if err != nil {
			return nil, errors.Join(ErrTokenRefresh, err)
		}
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthXOAUTH2),
			mail.WithUsername(t.cfg.Username),
			mail.WithPassword(token),
		)
	default:
		if t.cfg.Username != "" && t.cfg.Password != "" {
			opts = append(opts,
				mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
				mail.WithUsername(t.cfg.Username),
				mail.WithPassword(t.cfg.Password),
			)
		}
	}

	return opts, nil
}

func tlsOptions(cfg Config) ([]mail.Option, error) {
	policy := cfg.TLS
	if policy == TLSAuto {
		switch cfg.Port {
		case 465:
			policy = TLSImplicit
		case 25:
			policy = TLSOpportunistic
		default:
			policy = TLSMandatory
		}
	}

	switch policy {
	case TLSImplicit:
		return []mail.Option{mail.WithSSL()}, nil
	case TLSMandatory:
		return []mail.Option{mail.WithTLSPolicy(mail.TLSMandatory)}, nil
	case TLSOpportunistic:
		return []mail.Option{mail.WithTLSPolicy(mail.TLSOpportunistic)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTLS, cfg.TLS)
	}
}

// isRecipientError reports whether err concerns only this message's
// addresses, leaving the session usable.
func isRecipientError(err error) bool {
	var sendErr *mail.SendError
	if !errors.As(err, &sendErr) {
		return false
	}
	switch sendErr.Reason {
	case mail.ErrGetSender, mail.ErrGetRcpts, mail.ErrSMTPMailFrom, mail.ErrSMTPRcptTo, mail.ErrNoUnencoded:
		return true
	default:
		return false
	}
}
