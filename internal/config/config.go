// Package config loads the check lists and loader settings used by deploycheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
)

// ModulePlaceholder is replaced by the main module path in the loader command.
const ModulePlaceholder = "{module}"

// LoadReportPrefix starts the line on which the default loader reports a
// failed load as JSON ({"name","code","message"} of the thrown value).
const LoadReportPrefix = "deploycheck:load-error "

// defaultLoaderScript requires the module and reports only the thrown
// error, never the source excerpt or stack node prints for uncaught errors.
// The explicit exit stops a module that starts a server.
const defaultLoaderScript = "try{require('./" + ModulePlaceholder + "')}catch(e){" +
	"const o=(e!==null&&typeof e==='object')?e:{message:String(e)};" +
	"const s=v=>v===undefined?undefined:String(v);" +
	"console.error('" + LoadReportPrefix + "'+JSON.stringify({name:s(o.name),code:s(o.code),message:String(o.message)}));" +
	"process.exit(1)}process.exit(0)"

// Config represents the complete deploycheck configuration.
type Config struct {
	// Name is the project name shown in the report banner.
	// Empty means the project directory's base name.
	Name          string       `yaml:"name" json:"name"`
	Env           EnvConfig    `yaml:"env" json:"env"`
	Manifest      string       `yaml:"manifest" json:"manifest"`
	MainModule    string       `yaml:"main_module" json:"main_module"`
	CriticalFiles []string     `yaml:"critical_files" json:"critical_files"`
	Scripts       []string     `yaml:"scripts" json:"scripts"`
	Loader        LoaderConfig `yaml:"loader" json:"loader"`
	LogLevel      string       `yaml:"log_level" json:"log_level"`
}

// EnvConfig lists the environment variables to inspect.
type EnvConfig struct {
	// Required variables are counted; absence is a warning because they may be
	// injected at deploy time.
	Required []string `yaml:"required" json:"required"`
	// Optional variables are reported for information only.
	Optional []string `yaml:"optional" json:"optional"`
}

// LoaderConfig configures how the main module is loaded.
type LoaderConfig struct {
	// Command is the argv used to load the module. It must exit once the
	// module's top-level code has run. ModulePlaceholder in any
	// argument is replaced with the main module path.
	Command []string `yaml:"command" json:"command"`
	// Timeout bounds a single load (e.g. "30s").
	Timeout string `yaml:"timeout" json:"timeout"`
	// DependencyModules are third-party modules whose absence is expected
	// before dependencies are installed.
	DependencyModules []string `yaml:"dependency_modules" json:"dependency_modules"`
	// ConfigVars are runtime configuration values whose absence during module
	// initialization is expected before deployment.
	ConfigVars []string `yaml:"config_vars" json:"config_vars"`
}

// defaultScripts are the CodeDeploy lifecycle hooks shipped with the bot.
var defaultScripts = []string{
	"scripts/before_install.sh",
	"scripts/after_install.sh",
	"scripts/application_start.sh",
	"scripts/application_stop.sh",
	"scripts/validate_service.sh",
}

// NewConfig creates a new Config with the defaults for the messaging bot.
func NewConfig() *Config {
	critical := []string{"server.js", "package.json", "appspec.yml", "buildspec.yml"}
	critical = append(critical, defaultScripts...)

	return &Config{
		Env: EnvConfig{
			Required: []string{"NODE_ENV", "PORT"},
			Optional: []string{"WAHA_URL", "DATABASE_URL", "WAHA_API_KEY", "PHONE_NUMBER"},
		},
		Manifest:      "package.json",
		MainModule:    "server.js",
		CriticalFiles: critical,
		Scripts:       append([]string(nil), defaultScripts...),
		Loader: LoaderConfig{
			Command:           []string{"node", "-e", defaultLoaderScript},
			Timeout:           "30s",
			DependencyModules: []string{"express"},
			ConfigVars:        []string{"DATABASE_URL", "WAHA_URL"},
		},
		LogLevel: "info",
	}
}

// FindConfigFile returns the project config file in dir, or "" if none exists.
// .deploycheck.yaml takes precedence over .deploycheck.yml.
func FindConfigFile(dir string) string {
	for _, name := range []string{".deploycheck.yaml", ".deploycheck.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// Load loads configuration for the project in dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. Config file (explicit path, or .deploycheck.yaml/.yml in dir)
//  3. Environment variables (DEPLOYCHECK_*)
func Load(dir, explicit string) (*Config, error) {
	cfg := NewConfig()

	path := explicit
	if path == "" {
		path = FindConfigFile(dir)
	} else if !fileExists(path) {
		return nil, deployerrors.New(deployerrors.ErrCodeConfigNotFound,
			fmt.Sprintf("config file not found: %s", path), nil).
			WithSuggestion("pass an existing file to --config or omit the flag")
	}

	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, deployerrors.ConfigError(fmt.Sprintf("invalid configuration: %v", err), err)
	}

	return cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return deployerrors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return deployerrors.ConfigError(fmt.Sprintf("failed to parse config file %s: %v", path, err), err).
			WithSuggestion("check the YAML syntax")
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges set values from other into c.
// A list present in the file replaces the default, even when empty.
func (c *Config) mergeWith(other *Config) {
	if other.Name != "" {
		c.Name = other.Name
	}
	if other.Env.Required != nil {
		c.Env.Required = other.Env.Required
	}
	if other.Env.Optional != nil {
		c.Env.Optional = other.Env.Optional
	}
	if other.Manifest != "" {
		c.Manifest = other.Manifest
	}
	if other.MainModule != "" {
		c.MainModule = other.MainModule
	}
	if other.CriticalFiles != nil {
		c.CriticalFiles = other.CriticalFiles
	}
	if other.Scripts != nil {
		c.Scripts = other.Scripts
	}
	if len(other.Loader.Command) > 0 {
		c.Loader.Command = other.Loader.Command
	}
	if other.Loader.Timeout != "" {
		c.Loader.Timeout = other.Loader.Timeout
	}
	if other.Loader.DependencyModules != nil {
		c.Loader.DependencyModules = other.Loader.DependencyModules
	}
	if other.Loader.ConfigVars != nil {
		c.Loader.ConfigVars = other.Loader.ConfigVars
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

// applyEnvOverrides applies DEPLOYCHECK_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DEPLOYCHECK_LOADER_TIMEOUT"); v != "" {
		c.Loader.Timeout = v
	}
	if v := os.Getenv("DEPLOYCHECK_LOADER_COMMAND"); v != "" {
		if fields := strings.Fields(v); len(fields) > 0 {
			c.Loader.Command = fields
		}
	}
	if v := os.Getenv("DEPLOYCHECK_MAIN_MODULE"); v != "" {
		c.MainModule = v
	}
	if v := os.Getenv("DEPLOYCHECK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// LoaderTimeout returns the parsed loader timeout.
// Validate guarantees the value parses; the default applies otherwise.
func (c *Config) LoaderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Loader.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// LoaderArgs returns the loader command with the main module substituted.
func (c *Config) LoaderArgs() []string {
	args := make([]string, len(c.Loader.Command))
	for i, a := range c.Loader.Command {
		args[i] = strings.ReplaceAll(a, ModulePlaceholder, c.MainModule)
	}
	return args
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Manifest == "" {
		return fmt.Errorf("manifest must not be empty")
	}
	if c.MainModule == "" {
		return fmt.Errorf("main_module must not be empty")
	}

	paths := []string{c.Manifest, c.MainModule}
	paths = append(paths, c.CriticalFiles...)
	paths = append(paths, c.Scripts...)
	for _, p := range paths {
		if !filepath.IsLocal(p) {
			return fmt.Errorf("path %q must be relative to the project root", p)
		}
	}

	if len(c.Loader.Command) == 0 {
		return fmt.Errorf("loader.command must not be empty")
	}
	d, err := time.ParseDuration(c.Loader.Timeout)
	if err != nil {
		return fmt.Errorf("loader.timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("loader.timeout must be positive, got %s", c.Loader.Timeout)
	}

	for _, name := range append(append([]string{}, c.Env.Required...), c.Env.Optional...) {
		if name == "" || strings.ContainsAny(name, "= \t") {
			return fmt.Errorf("invalid environment variable name %q", name)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.LogLevel)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
