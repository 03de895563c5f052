// Package preflight runs the deployment readiness checks for the bot service.
//
// The checks run once, in a fixed order:
//   - Environment variables (required ones counted, optional ones informational)
//   - Dependency manifest (package.json) parses
//   - Critical files exist
//   - The main server module loads
//   - Lifecycle scripts are executable
//
// Every check item is classified as pass, warning (counted as a pass) or
// failure. A failure in one check never stops the others:
//
//	checker := preflight.New(preflight.WithRoot("/srv/bot"))
//	report := checker.RunAll(ctx)
//	checker.PrintReport(report)
//	os.Exit(report.Tally.ExitCode())
package preflight
