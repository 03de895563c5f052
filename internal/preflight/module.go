package preflight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Aman-CERP/deploycheck/internal/config"
	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
)

// ModuleLoader loads the main server module, running its top-level initialization.
type ModuleLoader interface {
	Load(ctx context.Context, root, module string) error
}

// LoadError is returned when the loader exits unsuccessfully.
type LoadError struct {
	Module string
	// Output is the loader's combined stdout and stderr, without the report line.
	Output string
	// Report is the thrown error as reported by the loader, if it reported one.
	Report *LoadReport
	Err    error
}

// LoadReport describes the value thrown while loading the module.
type LoadReport struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *LoadError) Error() string {
	if e.Report != nil {
		return fmt.Sprintf("load %s: %s", e.Module, e.Report.String())
	}
	if e.Output == "" {
		return fmt.Sprintf("load %s: %v", e.Module, e.Err)
	}
	return fmt.Sprintf("load %s: %v: %s", e.Module, e.Err, e.Output)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// String renders the report the way node prints an error header.
func (r *LoadReport) String() string {
	if r.Name == "" {
		return r.Message
	}
	return r.Name + ": " + r.Message
}

// parseLoadReport extracts the last report line from the loader output and
// returns it with the remaining output.
func parseLoadReport(output string) (*LoadReport, string) {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		payload, ok := strings.CutPrefix(line, config.LoadReportPrefix)
		if !ok {
			continue
		}
		var r LoadReport
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, output
		}
		rest := append(append([]string{}, lines[:i]...), lines[i+1:]...)
		return &r, strings.TrimSpace(strings.Join(rest, "\n"))
	}
	return nil, output
}

// CommandLoader loads the module by running an external command in the
// project root, e.g. node -e "require('./server.js'); process.exit(0)".
type CommandLoader struct {
	args    []string
	timeout time.Duration
}

// NewCommandLoader creates a loader for the given argv and per-load timeout.
func NewCommandLoader(args []string, timeout time.Duration) *CommandLoader {
	return &CommandLoader{
		args:    args,
		timeout: timeout,
	}
}

// Load runs the loader command. The process environment is inherited so the
// module sees the same variables the environment check reported on.
func (l *CommandLoader) Load(ctx context.Context, root, module string) error {
	if len(l.args) == 0 || l.args[0] == "" {
		return &LoadError{Module: module, Err: exec.ErrNotFound}
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, l.args[0], l.args[1:]...)
	cmd.Dir = root
	cmd.Stdout = &out
	cmd.Stderr = &out
	// Children that outlive the loader must not keep the pipes open forever.
	cmd.WaitDelay = 2 * time.Second

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	report, rest := parseLoadReport(strings.TrimSpace(out.String()))
	return &LoadError{
		Module: module,
		Output: rest,
		Report: report,
		Err:    err,
	}
}

// moduleNotFoundMarkers identify a missing-module failure.
var moduleNotFoundMarkers = []string{"MODULE_NOT_FOUND", "Cannot find module", "Cannot find package"}

// ClassifyLoadError maps a module load failure onto a coded error.
//
// A missing listed dependency and a missing listed configuration value are
// returned with warning severity: both are expected before the deployment
// environment is provisioned. Matching looks only at the thrown error
// (see failureOf), never at echoed source lines or stack frames.
func ClassifyLoadError(err error, dependencyModules, configVars []string) *deployerrors.DeployError {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, exec.ErrNotFound):
		return deployerrors.New(deployerrors.ErrCodeLoaderUnavailable, err.Error(), err).
			WithSuggestion("install the runtime or set loader.command in .deploycheck.yaml")
	case errors.Is(err, context.DeadlineExceeded):
		return deployerrors.New(deployerrors.ErrCodeLoaderTimeout, err.Error(), err).
			WithSuggestion("make sure the module exits after initialization or raise loader.timeout")
	case errors.Is(err, context.Canceled):
		return deployerrors.New(deployerrors.ErrCodeModuleLoad, "module load interrupted", err)
	}

	code, msg := failureOf(err)

	// The require stack after the first line names file paths, not modules.
	head := firstLine(msg)
	if code == "MODULE_NOT_FOUND" || code == "ERR_MODULE_NOT_FOUND" || containsAny(head, moduleNotFoundMarkers) {
		if dep := firstContained(head, dependencyModules); dep != "" {
			return deployerrors.New(deployerrors.ErrCodeDependencyAbsent,
				fmt.Sprintf("dependency %s is not installed", dep), err).WithDetail("module", dep)
		}
	}

	if name := firstContained(msg, configVars); name != "" {
		return deployerrors.New(deployerrors.ErrCodeRuntimeEnv,
			fmt.Sprintf("%s is required during initialization", name), err).WithDetail("variable", name)
	}

	return deployerrors.New(deployerrors.ErrCodeModuleLoad, msg, err)
}

// failureOf returns the error code and message of a failed load.
// A loader report is used as is; raw loader output is reduced to its error line.
func failureOf(err error) (code, msg string) {
	var le *LoadError
	if !errors.As(err, &le) {
		return "", err.Error()
	}
	if le.Report != nil {
		return le.Report.Code, le.Report.String()
	}
	if le.Output != "" {
		return "", errorLine(le.Output)
	}
	return "", err.Error()
}

// CheckMainModule loads the main module and classifies the outcome.
func (c *Checker) CheckMainModule(ctx context.Context) CheckResult {
	module := c.cfg.MainModule
	result := CheckResult{
		Name:     "module:" + module,
		Required: true,
	}

	err := c.loader.Load(ctx, c.root, module)
	if err == nil {
		result.Status = StatusPass
		result.Message = module + " loads without syntax errors"
		return result
	}

	classified := ClassifyLoadError(err, c.cfg.Loader.DependencyModules, c.cfg.Loader.ConfigVars)
	result.Err = classified
	result.Details = err.Error()

	switch {
	case !deployerrors.IsDeferred(classified):
		result.Status = StatusFail
		result.Message = fmt.Sprintf("%s has errors: %s", module, firstLine(classified.Message))
	case classified.Code == deployerrors.ErrCodeDependencyAbsent:
		result.Status = StatusPass
		result.Message = module + " syntax OK (modules not installed yet)"
	default:
		result.Status = StatusPass
		result.Message = module + " syntax OK (env vars will be set during deployment)"
	}

	return result
}

// errorLine picks the line naming the error out of a stack trace, falling
// back to the first non-empty line.
func errorLine(s string) string {
	first := ""
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if first == "" {
			first = line
		}
		if strings.Contains(line, "Error:") || strings.Contains(line, "Error [") {
			return line
		}
	}
	return first
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func containsAny(s string, subs []string) bool {
	return firstContained(s, subs) != ""
}

func firstContained(s string, subs []string) string {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return sub
		}
	}
	return ""
}
