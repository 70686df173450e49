// Package bulkmail sends personalized bulk email from a contact list.
//
// An App wires the pieces of a campaign run together: it loads the message
// templates and the contact list, opens the configured transport (an SMTP
// relay or the Resend API), sends one message per contact through
// campaign.SendBulk and always closes the transport afterwards.
//
//	cfg, err := bulkmail.ParseConfig(os.Args[1:], env.ToMap(os.Environ()))
//	if err != nil {
//		return err
//	}
//	app, err := bulkmail.New(*cfg, bulkmail.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	tally, err := app.Run(ctx)
//
// Configuration comes from the environment (optionally seeded from a .env
// file) and command-line flags, with flags taking precedence.
//
// Check runs preflight checks against every dependency without sending any
// mail. ArchiveLog uploads the run log to object storage when configured.
package bulkmail
