package mailer

import "context"

// Sender delivers a single prepared email.
type Sender interface {
	// Send delivers an email message. A non-nil error means the message was
	// not accepted for delivery.
	Send(ctx context.Context, email *Email) error
}

// Transport is a Sender bound to a session that must be released when the
// run ends. Implementations are not safe for concurrent use.
type Transport interface {
	Sender

	// Close releases the session. Closing a transport that never connected
	// is a no-op.
	Close() error
}

// Pinger is implemented by transports that can verify connectivity and
// credentials without sending a message.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, email *Email) error

func (f SenderFunc) Send(ctx context.Context, email *Email) error {
	return f(ctx, email)
}
