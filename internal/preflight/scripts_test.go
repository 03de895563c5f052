package preflight

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
)

func TestCheckScripts(t *testing.T) {
	tests := []struct {
		name       string
		mode       os.FileMode
		create     bool
		wantStatus CheckStatus
		wantMsg    string
		wantCode   string
	}{
		{"executable by owner", 0o755, true, StatusPass, "deploy.sh is executable", ""},
		{"executable by other only", 0o601, true, StatusPass, "deploy.sh is executable", ""},
		{"not executable", 0o644, true, StatusWarn, "deploy.sh not executable (will be set during deployment)", deployerrors.ErrCodeNotExecutable},
		{"missing", 0, false, StatusFail, "deploy.sh error: ", deployerrors.ErrCodeFilePermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a single configured script
			root := t.TempDir()
			if tt.create {
				writeFile(t, root, "deploy.sh", "#!/bin/sh\n", tt.mode)
			}
			c := newTestChecker(root, &fakeLoader{}, nil)
			c.cfg.Scripts = []string{"deploy.sh"}

			// When: checking scripts
			results := c.CheckScripts()

			// Then: the status follows the execute bits
			require.Len(t, results, 1)
			r := results[0]
			assert.True(t, r.Required)
			assert.Equal(t, tt.wantStatus, r.Status)
			assert.Contains(t, r.Message, tt.wantMsg)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, deployerrors.GetCode(r.Err))
			} else {
				assert.NoError(t, r.Err)
			}
		})
	}
}

func TestCheckScripts_NotExecutableSuggestsChmod(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scripts/start.sh", "#!/bin/sh\n", 0o600)
	c := newTestChecker(root, &fakeLoader{}, nil)
	c.cfg.Scripts = []string{"scripts/start.sh"}

	results := c.CheckScripts()

	require.Len(t, results, 1)
	var de *deployerrors.DeployError
	require.ErrorAs(t, results[0].Err, &de)
	assert.Equal(t, "chmod +x scripts/start.sh", de.Suggestion)
	assert.Equal(t, "mode -rw-------", results[0].Details)
}
