package preflight

import (
	"strings"

	"github.com/Aman-CERP/deploycheck/internal/output"
)

// PrintReport prints the report to the configured output.
func (c *Checker) PrintReport(report Report) {
	w := output.NewStyled(c.output, c.styles)

	w.Banner("Running " + report.Project + " Deployment Checks")
	w.Newline()

	for i, section := range report.Sections {
		if i > 0 {
			w.Newline()
		}
		w.Header(section.Title)
		for _, r := range section.Results {
			printResult(w, r, c.verbose)
		}
	}

	w.Newline()
	w.Banner("Results")
	w.Counter(output.GlyphPass, "Passed", report.Tally.Passed)
	w.Counter(output.GlyphFail, "Failed", report.Tally.Failed)
	w.Counter("", "Total", report.Tally.Total())
	w.Rule()
	w.Newline()

	if report.Tally.ExitCode() != 0 {
		w.Error("Checks failed! Please fix errors before deploying.")
	} else {
		w.Success("All checks passed! Ready for deployment.")
	}
	w.Newline()
}

func printResult(w *output.Writer, r CheckResult, verbose bool) {
	switch r.Status {
	case StatusPass:
		w.Pass(r.Message)
	case StatusWarn:
		w.Warn(r.Message)
	case StatusFail:
		w.Fail(r.Message)
	default:
		w.Info(r.Message)
	}

	if verbose && r.Details != "" {
		for _, line := range strings.Split(r.Details, "\n") {
			w.Detail(line)
		}
	}
}
