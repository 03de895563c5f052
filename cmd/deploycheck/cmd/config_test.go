package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/deploycheck/internal/config"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	configCmd, _, err := cmd.Find([]string{"config"})
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, sc := range configCmd.Commands() {
		names[sc.Name()] = true
	}
	assert.True(t, names["init"], "should have init command")
	assert.True(t, names["show"], "should have show command")
}

func TestConfigInit_WritesDefaults(t *testing.T) {
	// Given: a project without configuration
	root := t.TempDir()

	// When: running config init
	out, err := execute(t, "config", "init", "--dir", root)

	// Then: .deploycheck.yaml holds the defaults and loads back unchanged
	require.NoError(t, err)
	assert.Contains(t, out, "Created configuration")

	path := filepath.Join(root, ".deploycheck.yaml")
	require.FileExists(t, path)

	cfg, err := config.Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), cfg)
}

func TestConfigInit_KeepsExisting(t *testing.T) {
	// Given: an existing configuration
	root := t.TempDir()
	path := filepath.Join(root, ".deploycheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Custom\n"), 0o644))

	// When: running config init without --force
	out, err := execute(t, "config", "init", "--dir", root)

	// Then: the file is untouched
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration already exists")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: Custom\n", string(data))

	// When: forcing
	_, err = execute(t, "config", "init", "--dir", root, "--force")

	// Then: the defaults replace it
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "critical_files:")
}

func TestConfigShow_JSON(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".deploycheck.yaml"),
		[]byte("name: Bot\nmain_module: index.js\n"), 0o644))
	t.Setenv("DEPLOYCHECK_LOADER_TIMEOUT", "5s")

	out, err := execute(t, "config", "show", "--dir", root, "--json")

	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "Bot", cfg.Name)
	assert.Equal(t, "index.js", cfg.MainModule)
	assert.Equal(t, "5s", cfg.Loader.Timeout)
}

func TestConfigShow_YAML(t *testing.T) {
	out, err := execute(t, "config", "show", "--dir", t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, out, "main_module: server.js")
	assert.Contains(t, out, "log_level: info")
}
