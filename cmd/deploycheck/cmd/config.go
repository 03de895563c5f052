package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/deploycheck/internal/config"
	"github.com/Aman-CERP/deploycheck/internal/output"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage project configuration",
		Long: `Manage the project configuration file.

The configuration lists the environment variables, critical files and
scripts to check, and how the main module is loaded.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. Project config (.deploycheck.yaml, or --config)
  3. Environment variables (DEPLOYCHECK_*)`,
		Example: `  # Write the defaults to .deploycheck.yaml
  deploycheck config init

  # Show effective configuration
  deploycheck config show`,
	}

	cmd.AddCommand(newConfigInitCmd(opts))
	cmd.AddCommand(newConfigShowCmd(opts))

	return cmd
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .deploycheck.yaml with the default checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, opts, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, opts, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runConfigInit(cmd *cobra.Command, opts *rootOptions, force bool) error {
	out := output.New(cmd.OutOrStdout())

	configPath := opts.configPath
	existing := ""
	if configPath == "" {
		configPath = filepath.Join(opts.dir, ".deploycheck.yaml")
		existing = config.FindConfigFile(opts.dir)
	} else if _, err := os.Stat(configPath); err == nil {
		existing = configPath
	}

	if existing != "" && !force {
		out.Warn("Configuration already exists")
		out.Statusf("📁", "Location: %s", existing)
		out.Status("💡", "Use --force to overwrite it with the defaults")
		return nil
	}

	if err := config.NewConfig().WriteYAML(configPath); err != nil {
		return err
	}

	out.Success("Created configuration")
	out.Statusf("📁", "Location: %s", configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, opts *rootOptions, jsonOutput bool) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
