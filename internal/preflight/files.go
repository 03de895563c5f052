package preflight

import (
	"errors"
	"io/fs"
	"os"

	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
)

// CheckCriticalFiles checks that every critical file exists.
// Each present path is one pass and each missing path one failure.
func (c *Checker) CheckCriticalFiles() []CheckResult {
	results := make([]CheckResult, 0, len(c.cfg.CriticalFiles))

	for _, file := range c.cfg.CriticalFiles {
		result := CheckResult{
			Name:     "file:" + file,
			Required: true,
		}

		_, err := os.Stat(c.path(file))
		switch {
		case err == nil:
			result.Status = StatusPass
			result.Message = file + " exists"
		case errors.Is(err, fs.ErrNotExist):
			result.Status = StatusFail
			result.Message = file + " missing"
			result.Err = deployerrors.IOError(file+" missing", err).WithDetail("path", file)
		default:
			result.Status = StatusFail
			result.Message = file + " missing"
			result.Details = err.Error()
			result.Err = deployerrors.New(deployerrors.ErrCodeFilePermission, file+" is not accessible", err).
				WithDetail("path", file)
		}

		results = append(results, result)
	}

	return results
}
