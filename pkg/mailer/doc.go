// Package mailer defines the message and transport abstractions used by the
// bulk send loop.
//
// The package separates what is sent (Email) from how it is delivered
// (Transport), so the send loop stays the same whether messages go through an
// SMTP relay or an HTTP email API.
//
// # Transports
//
//   - smtp: a single authenticated, encrypted SMTP session opened on first use
//     and reused for every message of the run (package mailer/smtp)
//   - resend: the Resend HTTP API (package mailer/resend)
//
// A Transport is owned by exactly one run. Send is called sequentially and
// Close is called once when the run ends, whatever its outcome:
//
//	transport := smtp.New(cfg, smtp.WithLogger(log))
//	defer transport.Close()
//
//	err := transport.Send(ctx, &mailer.Email{
//		From:    "news@example.com",
//		To:      []string{"alice@example.com"},
//		Subject: "Hello Alice",
//		HTML:    "<p>Hello Alice</p>",
//	})
//
// # Errors
//
//   - ErrNoRecipient: no recipient specified
//   - ErrNoSender: no sender address
//   - ErrInvalidAddress: a sender or recipient address could not be parsed
//   - ErrConnectFailed: the transport session could not be established
//   - ErrSendFailed: the provider rejected or failed to deliver the message
package mailer
