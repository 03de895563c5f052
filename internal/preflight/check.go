package preflight

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Aman-CERP/deploycheck/internal/config"
	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
	"github.com/Aman-CERP/deploycheck/internal/ui"
)

// CheckStatus represents the result of a check item.
type CheckStatus int

const (
	// StatusPass indicates the check passed successfully.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a deferred condition; it counts as a pass.
	StatusWarn
	// StatusFail indicates the check failed.
	StatusFail
	// StatusInfo indicates an informational line that is never counted.
	StatusInfo
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	case StatusInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// CheckResult holds the result of a single check item.
// Only Required results are counted in the tally; the rest are report lines.
type CheckResult struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
	Required bool        `json:"required"`
	Err      error       `json:"-"`
}

// IsCritical returns true if this is a required check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// Section groups the results of one check in the sequence.
type Section struct {
	Title   string        `json:"title"`
	Results []CheckResult `json:"results"`
}

// Tally holds the passed and failed counters.
type Tally struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Add folds a result into the tally. Non-required results are ignored.
func (t *Tally) Add(r CheckResult) {
	if !r.Required {
		return
	}
	switch r.Status {
	case StatusPass, StatusWarn:
		t.Passed++
	case StatusFail:
		t.Failed++
	}
}

// Total returns the number of counted check items.
func (t Tally) Total() int {
	return t.Passed + t.Failed
}

// ExitCode returns 0 when nothing failed and 1 otherwise.
func (t Tally) ExitCode() int {
	if t.Failed > 0 {
		return 1
	}
	return 0
}

// Report is the outcome of a full run.
type Report struct {
	Project  string    `json:"project"`
	Root     string    `json:"root"`
	Sections []Section `json:"sections"`
	Tally    Tally     `json:"tally"`
}

// Results returns every result in order.
func (r Report) Results() []CheckResult {
	var all []CheckResult
	for _, s := range r.Sections {
		all = append(all, s.Results...)
	}
	return all
}

// Checker performs the readiness checks.
type Checker struct {
	root      string
	cfg       *config.Config
	lookupEnv func(string) (string, bool)
	loader    ModuleLoader
	verbose   bool
	output    io.Writer
	styles    ui.Styles
	logger    *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithRoot sets the project directory the checks run against.
func WithRoot(root string) Option {
	return func(c *Checker) {
		c.root = root
	}
}

// WithConfig sets the check lists and loader settings.
func WithConfig(cfg *config.Config) Option {
	return func(c *Checker) {
		c.cfg = cfg
	}
}

// WithLookupEnv replaces os.LookupEnv for environment checks.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(c *Checker) {
		c.lookupEnv = fn
	}
}

// WithLoader sets the loader used for the main module check.
func WithLoader(l ModuleLoader) Option {
	return func(c *Checker) {
		c.loader = l
	}
}

// WithVerbose enables verbose output.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.output = w
	}
}

// WithStyles sets the glyph styles used by PrintReport.
func WithStyles(s ui.Styles) Option {
	return func(c *Checker) {
		c.styles = s
	}
}

// WithLogger sets the structured logger for per-item diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		root:      ".",
		lookupEnv: os.LookupEnv,
		output:    os.Stdout,
		styles:    ui.NoColorStyles(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg == nil {
		c.cfg = config.NewConfig()
	}
	if c.loader == nil {
		c.loader = NewCommandLoader(c.cfg.LoaderArgs(), c.cfg.LoaderTimeout())
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// RunAll runs every check in order and returns the report.
// Checks never abort the run; the tally is computed once all have finished.
func (c *Checker) RunAll(ctx context.Context) Report {
	report := Report{
		Project: c.projectName(),
		Root:    c.root,
	}

	steps := []struct {
		title string
		run   func(context.Context) []CheckResult
	}{
		{"Checking environment variables...", func(context.Context) []CheckResult {
			return append(c.CheckRequiredEnv(), c.CheckOptionalEnv()...)
		}},
		{"Checking dependencies...", func(context.Context) []CheckResult { return c.CheckManifest() }},
		{"Checking critical files...", func(context.Context) []CheckResult { return c.CheckCriticalFiles() }},
		{fmt.Sprintf("Checking %s syntax...", c.cfg.MainModule), func(ctx context.Context) []CheckResult {
			return []CheckResult{c.CheckMainModule(ctx)}
		}},
		{"Checking script file permissions...", func(context.Context) []CheckResult { return c.CheckScripts() }},
	}

	for i, step := range steps {
		title := fmt.Sprintf("Check %d: %s", i+1, step.title)
		section := Section{Title: title, Results: c.guard(ctx, title, step.run)}
		for _, r := range section.Results {
			report.Tally.Add(r)
			c.logResult(r)
		}
		report.Sections = append(report.Sections, section)
	}

	c.logger.Info("deployment checks complete",
		slog.String("project", report.Project),
		slog.Int("passed", report.Tally.Passed),
		slog.Int("failed", report.Tally.Failed))

	return report
}

// guard runs one check and turns a panic into a single failed item.
func (c *Checker) guard(ctx context.Context, title string, run func(context.Context) []CheckResult) (results []CheckResult) {
	defer func() {
		if p := recover(); p != nil {
			err := deployerrors.InternalError(fmt.Sprintf("check panicked: %v", p), nil)
			results = []CheckResult{{
				Name:     title,
				Status:   StatusFail,
				Message:  err.Message,
				Required: true,
				Err:      err,
			}}
		}
	}()
	return run(ctx)
}

func (c *Checker) logResult(r CheckResult) {
	args := []any{
		slog.String("name", r.Name),
		slog.String("status", r.Status.String()),
		slog.String("message", r.Message),
		slog.Bool("required", r.Required),
	}
	if r.Err != nil {
		args = append(args, deployerrors.LogAttrs(r.Err)...)
	}
	c.logger.Debug("check item", args...)
}

// projectName returns the configured name or the root directory's base name.
func (c *Checker) projectName() string {
	if c.cfg.Name != "" {
		return c.cfg.Name
	}
	abs, err := filepath.Abs(c.root)
	if err != nil {
		return filepath.Base(c.root)
	}
	return filepath.Base(abs)
}

// path resolves a project-relative path against the root.
func (c *Checker) path(rel string) string {
	return filepath.Join(c.root, rel)
}

// HasCriticalFailures returns true if any required check failed.
func (c *Checker) HasCriticalFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.IsCritical() {
			return true
		}
	}
	return false
}

// SummaryStatus returns a summary status string for the results.
func (c *Checker) SummaryStatus(results []CheckResult) string {
	hasWarnings := false
	hasCriticalFailure := false

	for _, r := range results {
		if r.IsCritical() {
			hasCriticalFailure = true
		}
		if r.Required && r.Status == StatusWarn {
			hasWarnings = true
		}
	}

	if hasCriticalFailure {
		return "failed"
	}
	if hasWarnings {
		return "ready_with_warnings"
	}
	return "ready"
}
