// Package health runs preflight checks before a campaign is sent.
//
// Each check is a plain func(context.Context) error. Run executes all of them
// concurrently under a shared timeout and reports every result, so one slow
// or failing dependency never hides the state of another:
//
//	report := health.Run(ctx, health.Checks{
//		"smtp":     transport.Ping,
//		"template": checkTemplate,
//	}, health.WithTimeout(10*time.Second), health.WithLogger(log))
//	if err := report.Err(); err != nil {
//		os.Exit(1)
//	}
package health
