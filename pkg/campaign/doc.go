// Package campaign sends one personalized message per contact, in order,
// through a single transport.
//
// SendBulk is strictly sequential. A failure for one recipient is counted and
// logged but never stops the run. Between sends it waits for the configured
// delay, except after the last contact it will process:
//
//	tally := campaign.SendBulk(ctx, transport, campaign.Params{
//		From:     "News <news@example.com>",
//		Contacts: list,
//		Subject:  "Hello $name",
//		HTML:     html,
//		Delay:    5 * time.Second,
//		TestMode: true,
//		Logger:   log,
//	})
//
// Test mode caps the run at three contacts. Cancelling ctx interrupts the
// current delay and stops before the next contact.
package campaign
