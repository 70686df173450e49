package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("mailer: email must have at least one recipient")

	// ErrNoSender indicates the from address is empty.
	ErrNoSender = errors.New("mailer: email must have a sender")

	// ErrInvalidAddress indicates a sender or recipient address is malformed.
	ErrInvalidAddress = errors.New("mailer: invalid email address")

	// ErrConnectFailed indicates the transport session could not be opened.
	ErrConnectFailed = errors.New("mailer: failed to connect")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("mailer: failed to send email")
)
