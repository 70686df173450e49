package mailer

// Tags represents email tags/categories. Values are either presence-only
// (struct{}{}) or strings. Only API providers use them; SMTP ignores tags.
type Tags map[string]any

// Email represents a fully personalized message ready for sending.
type Email struct {
	Headers map[string]string // Custom headers
	Tags    Tags              // Provider-specific tags
	Subject string
	HTML    string   // HTML body
	Text    string   // Optional plain text alternative
	From    string   // Sender address
	ReplyTo string   // Optional reply-to address
	To      []string // Recipients (at least one required)
}

// Validate checks the fields every transport requires. An empty body is
// allowed: a template may personalize to nothing for some contacts.
func (e *Email) Validate() error {
	if e.From == "" {
		return ErrNoSender
	}
	if len(e.To) == 0 || e.To[0] == "" {
		return ErrNoRecipient
	}
	return nil
}
