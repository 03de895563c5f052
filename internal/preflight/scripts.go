package preflight

import (
	"fmt"
	"os"

	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
)

// executableBits covers the user, group and other execute permissions.
const executableBits = 0o111

// CheckScripts checks that lifecycle scripts can be stat'd and are executable.
// A missing execute bit is a warning, since the deploy agent sets it;
// a stat error is a failure.
func (c *Checker) CheckScripts() []CheckResult {
	results := make([]CheckResult, 0, len(c.cfg.Scripts))

	for _, script := range c.cfg.Scripts {
		result := CheckResult{
			Name:     "script:" + script,
			Required: true,
		}

		info, err := os.Stat(c.path(script))
		if err != nil {
			result.Status = StatusFail
			result.Message = fmt.Sprintf("%s error: %v", script, err)
			result.Err = deployerrors.New(deployerrors.ErrCodeFilePermission,
				"cannot stat "+script, err).WithDetail("path", script)
			results = append(results, result)
			continue
		}

		result.Details = "mode " + info.Mode().String()
		if info.Mode().Perm()&executableBits != 0 {
			result.Status = StatusPass
			result.Message = script + " is executable"
		} else {
			result.Status = StatusWarn
			result.Message = script + " not executable (will be set during deployment)"
			result.Err = deployerrors.New(deployerrors.ErrCodeNotExecutable, script+" is not executable", nil).
				WithDetail("path", script).
				WithSuggestion("chmod +x " + script)
		}

		results = append(results, result)
	}

	return results
}
