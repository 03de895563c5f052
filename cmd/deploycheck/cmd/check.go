package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
	"github.com/Aman-CERP/deploycheck/internal/preflight"
	"github.com/Aman-CERP/deploycheck/internal/ui"
)

type checkOptions struct {
	jsonOutput bool
	verbose    bool
	noColor    bool
}

// runChecks runs the full check sequence against the project directory.
func runChecks(cmd *cobra.Command, opts *rootOptions, checkOpts checkOptions) error {
	// Ctrl-C kills the loader subprocess through the context.
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, cleanup, err := startLogging(opts, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// The run ID ties this report to its lines in a shared log file.
	runID := uuid.New().String()
	logger = logger.With(slog.String("run_id", runID))

	out := cmd.OutOrStdout()
	checker := preflight.New(
		preflight.WithRoot(opts.dir),
		preflight.WithConfig(cfg),
		preflight.WithVerbose(checkOpts.verbose),
		preflight.WithOutput(out),
		preflight.WithStyles(ui.GetStyles(!ui.UseColor(out, checkOpts.noColor))),
		preflight.WithLogger(logger),
	)

	report := checker.RunAll(ctx)

	if checkOpts.jsonOutput {
		if err := outputJSON(cmd, checker, runID, report); err != nil {
			return err
		}
	} else {
		checker.PrintReport(report)
	}

	if checker.HasCriticalFailures(report.Results()) {
		return errChecksFailed
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// JSONOutput is the structure for JSON output.
type JSONOutput struct {
	RunID    string        `json:"run_id"`
	Project  string        `json:"project"`
	Status   string        `json:"status"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Total    int           `json:"total"`
	Sections []JSONSection `json:"sections"`
}

// JSONSection is one check of the sequence.
type JSONSection struct {
	Title  string            `json:"title"`
	Checks []JSONCheckResult `json:"checks"`
}

// JSONCheckResult is a single check item for JSON output.
type JSONCheckResult struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Required  bool   `json:"required"`
	Details   string `json:"details,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Category  string `json:"error_category,omitempty"`
}

func outputJSON(cmd *cobra.Command, checker *preflight.Checker, runID string, report preflight.Report) error {
	output := JSONOutput{
		RunID:    runID,
		Project:  report.Project,
		Status:   checker.SummaryStatus(report.Results()),
		Passed:   report.Tally.Passed,
		Failed:   report.Tally.Failed,
		Total:    report.Tally.Total(),
		Sections: make([]JSONSection, len(report.Sections)),
	}

	for i, s := range report.Sections {
		section := JSONSection{
			Title:  s.Title,
			Checks: make([]JSONCheckResult, len(s.Results)),
		}
		for j, r := range s.Results {
			section.Checks[j] = JSONCheckResult{
				Name:      r.Name,
				Status:    statusToString(r.Status),
				Message:   r.Message,
				Required:  r.Required,
				Details:   r.Details,
				ErrorCode: deployerrors.GetCode(r.Err),
				Category:  string(deployerrors.GetCategory(r.Err)),
			}
		}
		output.Sections[i] = section
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func statusToString(s preflight.CheckStatus) string {
	switch s {
	case preflight.StatusPass:
		return "pass"
	case preflight.StatusWarn:
		return "warn"
	case preflight.StatusFail:
		return "fail"
	case preflight.StatusInfo:
		return "info"
	default:
		return "unknown"
	}
}
