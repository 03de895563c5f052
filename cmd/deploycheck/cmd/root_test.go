package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/deploycheck/internal/config"
	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
)

// newProject writes a project that passes every default check.
// The loader is replaced with `true` so tests do not depend on node.
func newProject(t *testing.T) string {
	t.Helper()
	t.Setenv("DEPLOYCHECK_LOADER_COMMAND", "true")
	t.Setenv("NO_COLOR", "1")

	root := t.TempDir()
	files := map[string]string{
		"package.json":  `{"name":"bot","version":"1.2.3","dependencies":{"express":"^4.18.0"}}`,
		"server.js":     "require('express')\n",
		"appspec.yml":   "version: 0.0\n",
		"buildspec.yml": "version: 0.2\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "scripts"), 0o755))
	for _, script := range config.NewConfig().Scripts {
		path := filepath.Join(root, script)
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
		require.NoError(t, os.Chmod(path, 0o755))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmd_ReadyProject(t *testing.T) {
	// Given: a complete project
	root := newProject(t)

	// When: running the checks
	out, err := execute(t, "--dir", root)

	// Then: the run succeeds with the full report
	require.NoError(t, err)
	assert.Contains(t, out, "Deployment Checks")
	assert.Contains(t, out, "Check 5: Checking script file permissions...")
	assert.Contains(t, out, "server.js loads without syntax errors")
	assert.Contains(t, out, "Total:    18")
	assert.Contains(t, out, "All checks passed! Ready for deployment.")
}

func TestRootCmd_MissingFile_Fails(t *testing.T) {
	// Given: a project without buildspec.yml
	root := newProject(t)
	require.NoError(t, os.Remove(filepath.Join(root, "buildspec.yml")))

	// When: running the checks
	out, err := execute(t, "-C", root)

	// Then: the command reports failure through errChecksFailed
	require.Error(t, err)
	assert.True(t, errors.Is(err, errChecksFailed))
	assert.Contains(t, out, "buildspec.yml missing")
	assert.Contains(t, out, "Checks failed! Please fix errors before deploying.")
}

func TestRootCmd_JSONOutput(t *testing.T) {
	root := newProject(t)
	require.NoError(t, os.Chmod(filepath.Join(root, "scripts/application_stop.sh"), 0o644))

	out, err := execute(t, "--dir", root, "--json")

	require.NoError(t, err)
	var result JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "ready_with_warnings", result.Status)
	assert.Len(t, result.RunID, 36)
	assert.Equal(t, 18, result.Total)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Sections, 5)

	var stop JSONCheckResult
	for _, c := range result.Sections[4].Checks {
		if c.Name == "script:scripts/application_stop.sh" {
			stop = c
		}
	}
	assert.Equal(t, "warn", stop.Status)
	assert.Equal(t, deployerrors.ErrCodeNotExecutable, stop.ErrorCode)
	assert.Equal(t, string(deployerrors.CategoryIO), stop.Category)
}

func TestRootCmd_LoaderFailure(t *testing.T) {
	// Given: a loader that always fails with a syntax error
	root := newProject(t)
	t.Setenv("DEPLOYCHECK_LOADER_COMMAND", "false")

	// When: running the checks
	out, err := execute(t, "--dir", root)

	// Then: the module check fails
	assert.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "server.js has errors")
}

func TestRootCmd_InvalidDir(t *testing.T) {
	_, err := execute(t, "--dir", filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Equal(t, deployerrors.ErrCodeInvalidPath, deployerrors.GetCode(err))
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	// Given: a config file with an unparseable timeout
	root := newProject(t)
	cfgFile := filepath.Join(root, ".deploycheck.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("loader:\n  timeout: soon\n"), 0o644))

	// When: running the checks
	_, err := execute(t, "--dir", root)

	// Then: configuration errors stop the run
	require.Error(t, err)
	assert.False(t, errors.Is(err, errChecksFailed))
	assert.True(t, deployerrors.IsFatal(err))
}

func TestRootCmd_ConfigFileLists(t *testing.T) {
	// Given: a config that only checks two files
	root := newProject(t)
	cfgFile := filepath.Join(root, "checks.yaml")
	content := "name: Tiny\nenv:\n  required: [PORT]\n  optional: []\ncritical_files: [server.js]\nscripts: []\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o644))

	// When: running with --config
	out, err := execute(t, "--dir", root, "--config", cfgFile, "--json")

	// Then: counts follow the config
	require.NoError(t, err)
	var result JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Tiny", result.Project)
	assert.Equal(t, 1+1+1+1, result.Total)
}

func TestRootCmd_LogFile(t *testing.T) {
	root := newProject(t)
	logPath := filepath.Join(t.TempDir(), "checks.log")

	_, err := execute(t, "--dir", root, "--log-file", logPath, "--debug")

	require.NoError(t, err)
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "deployment checks complete")
	assert.Contains(t, string(data), "check item")
	assert.Contains(t, string(data), `"run_id":`)
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, "extra")
	assert.Error(t, err)
}

func TestPrintError(t *testing.T) {
	t.Run("coded error", func(t *testing.T) {
		var buf bytes.Buffer
		err := deployerrors.New(deployerrors.ErrCodeConfigInvalid, "invalid configuration", nil).
			WithSuggestion("fix .deploycheck.yaml")

		printError(&buf, err)

		assert.Contains(t, buf.String(), "Error: invalid configuration")
		assert.Contains(t, buf.String(), "Hint: fix .deploycheck.yaml")
		assert.Contains(t, buf.String(), deployerrors.ErrCodeConfigInvalid)
		assert.Contains(t, buf.String(), "No checks were run.")
	})

	t.Run("non-fatal coded error", func(t *testing.T) {
		var buf bytes.Buffer
		printError(&buf, deployerrors.New(deployerrors.ErrCodeInvalidPath, "missing is not a directory", nil))

		assert.Contains(t, buf.String(), "Error: missing is not a directory")
		assert.NotContains(t, buf.String(), "No checks were run.")
	})

	t.Run("usage error", func(t *testing.T) {
		var buf bytes.Buffer
		printError(&buf, errors.New("unknown flag: --nope"))

		assert.Equal(t, "Error: unknown flag: --nope\n"+
			"  Hint: run 'deploycheck --help' for usage\n"+
			"  Code: "+deployerrors.ErrCodeInvalidInput+"\n", buf.String())
	})
}
