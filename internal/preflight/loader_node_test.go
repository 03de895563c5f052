package preflight

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/deploycheck/internal/config"
	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
)

// These tests run the default loader command against a real node binary.
func requireNode(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("node not installed")
	}
}

func checkModuleWithNode(t *testing.T, source string) CheckResult {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "server.js", source, 0o644)

	cfg := config.NewConfig()
	c := newTestChecker(root, NewCommandLoader(cfg.LoaderArgs(), cfg.LoaderTimeout()), nil, WithConfig(cfg))
	return c.CheckMainModule(context.Background())
}

func TestDefaultLoader_Node(t *testing.T) {
	requireNode(t)

	tests := []struct {
		name       string
		source     string
		wantStatus CheckStatus
		wantMsg    string
		wantCode   string
	}{
		{
			name:       "clean load",
			source:     "module.exports = { ok: true };\n",
			wantStatus: StatusPass,
			wantMsg:    "server.js loads without syntax errors",
		},
		{
			name:       "server keeps running",
			source:     "setInterval(() => {}, 1000);\n",
			wantStatus: StatusPass,
			wantMsg:    "server.js loads without syntax errors",
		},
		{
			name:       "express not installed",
			source:     "const express = require('express');\nconst app = express();\n",
			wantStatus: StatusPass,
			wantMsg:    "server.js syntax OK (modules not installed yet)",
			wantCode:   deployerrors.ErrCodeDependencyAbsent,
		},
		{
			name:       "database url required",
			source:     "throw new Error('DATABASE_URL environment variable is required');\n",
			wantStatus: StatusPass,
			wantMsg:    "server.js syntax OK (env vars will be set during deployment)",
			wantCode:   deployerrors.ErrCodeRuntimeEnv,
		},
		{
			name:       "reference error next to a config var",
			source:     "const client = createClinet(process.env.WAHA_URL);\n",
			wantStatus: StatusFail,
			wantMsg:    "server.js has errors: ReferenceError: createClinet is not defined",
			wantCode:   deployerrors.ErrCodeModuleLoad,
		},
		{
			name:       "syntax error",
			source:     "const url = process.env.DATABASE_URL;\nfunction start( {\n",
			wantStatus: StatusFail,
			wantMsg:    "server.js has errors: SyntaxError:",
			wantCode:   deployerrors.ErrCodeModuleLoad,
		},
		{
			name:       "non-error value thrown",
			source:     "throw 'boom';\n",
			wantStatus: StatusFail,
			wantMsg:    "server.js has errors: boom",
			wantCode:   deployerrors.ErrCodeModuleLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := checkModuleWithNode(t, tt.source)

			assert.Equal(t, tt.wantStatus, r.Status, r.Details)
			assert.Contains(t, r.Message, tt.wantMsg)
			if tt.wantCode == "" {
				assert.NoError(t, r.Err)
				return
			}
			require.Error(t, r.Err)
			assert.Equal(t, tt.wantCode, deployerrors.GetCode(r.Err))
		})
	}
}
