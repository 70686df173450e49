package smtp

import (
	"errors"

	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/bulkmail/pkg/mailer"
)

// buildMessage converts an Email into a MIME message. With both bodies set
// the result is multipart/alternative with text first and HTML preferred.
func buildMessage(email *mailer.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(email.From); err != nil {
		return nil, errors.Join(mailer.ErrInvalidAddress, err)
	}
	if err := msg.To(email.To...); err != nil {
		return nil, errors.Join(mailer.ErrInvalidAddress, err)
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, errors.Join(mailer.ErrInvalidAddress, err)
		}
	}

	msg.Subject(email.Subject)

	switch {
	case email.HTML != "" && email.Text != "":
		msg.SetBodyString(mail.TypeTextPlain, email.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTML)
	case email.HTML != "":
		msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	default:
		msg.SetBodyString(mail.TypeTextPlain, email.Text)
	}

	for key, value := range email.Headers {
		msg.SetGenHeader(mail.Header(key), value)
	}

	return msg, nil
}
