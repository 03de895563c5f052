// Package cmd provides the CLI commands for deploycheck.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/deploycheck/internal/config"
	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
	"github.com/Aman-CERP/deploycheck/internal/logging"
	"github.com/Aman-CERP/deploycheck/pkg/version"
)

// errChecksFailed is returned when at least one check failed.
// The report already explains why, so Execute prints nothing more.
var errChecksFailed = errors.New("deployment checks failed")

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	dir        string
	configPath string
	debug      bool
	logFile    string
}

// NewRootCmd creates the root command for the deploycheck CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var checkOpts checkOptions

	cmd := &cobra.Command{
		Use:   "deploycheck",
		Short: "Deployment readiness checks for a Node.js service",
		Long: `deploycheck verifies that a project is ready to deploy.

It checks, in order:
  1. Environment variables (required and optional)
  2. The dependency manifest (package.json)
  3. Critical files (server.js, appspec.yml, buildspec.yml, lifecycle scripts)
  4. That the main module loads without syntax errors
  5. That lifecycle scripts are executable

Missing environment variables, uninstalled modules and missing execute bits
are reported as warnings; they are expected before the deployment environment
is provisioned. The exit code is 1 when any check fails.`,
		Example: `  # Check the current directory
  deploycheck

  # Check another project with item details
  deploycheck -C ./bot --verbose

  # Machine-readable output for pipelines
  deploycheck --json`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChecks(cmd, opts, checkOpts)
		},
	}

	cmd.SetVersionTemplate("deploycheck version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "Project directory to check")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default <dir>/.deploycheck.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging to ~/.deploycheck/logs/")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Write structured logs to this file at the configured log_level")

	cmd.Flags().BoolVar(&checkOpts.jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVarP(&checkOpts.verbose, "verbose", "v", false, "Show item details")
	cmd.Flags().BoolVar(&checkOpts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and reports errors on stderr.
func Execute() error {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err != nil && !errors.Is(err, errChecksFailed) {
		printError(cmd.ErrOrStderr(), err)
	}
	return err
}

// printError renders an error with its code and hint. Errors from cobra itself
// (unknown flags, extra arguments) are reported as invalid input.
func printError(w io.Writer, err error) {
	var de *deployerrors.DeployError
	if !errors.As(err, &de) {
		de = deployerrors.ValidationError(err.Error(), err).
			WithSuggestion("run 'deploycheck --help' for usage")
	}
	_, _ = fmt.Fprint(w, deployerrors.FormatForCLI(de))
	if deployerrors.IsFatal(de) {
		_, _ = fmt.Fprintln(w, "  No checks were run.")
	}
}

// loadConfig validates the project directory and loads its configuration.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	info, err := os.Stat(opts.dir)
	if err != nil {
		return nil, deployerrors.New(deployerrors.ErrCodeInvalidPath,
			fmt.Sprintf("project directory %s: %v", opts.dir, err), err)
	}
	if !info.IsDir() {
		return nil, deployerrors.New(deployerrors.ErrCodeInvalidPath,
			fmt.Sprintf("%s is not a directory", opts.dir), nil)
	}

	return config.Load(opts.dir, opts.configPath)
}

// startLogging returns the logger used by the checks.
// Logging is off unless --debug or --log-file is given; --debug forces the debug level.
func startLogging(opts *rootOptions, cfg *config.Config) (*slog.Logger, func(), error) {
	if !opts.debug && opts.logFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	if opts.debug {
		logCfg = logging.DebugConfig()
	}
	if opts.logFile != "" {
		logCfg.FilePath = opts.logFile
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	logger.Info("logging enabled",
		slog.String("log_file", logCfg.FilePath),
		slog.String("level", logCfg.Level),
		slog.String("version", version.Version))

	return logger, cleanup, nil
}
