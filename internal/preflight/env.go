package preflight

import (
	"fmt"

	deployerrors "github.com/Aman-CERP/deploycheck/internal/errors"
)

// CheckRequiredEnv checks each required environment variable.
// A missing or empty variable is a warning: it may be injected at deploy time.
func (c *Checker) CheckRequiredEnv() []CheckResult {
	results := make([]CheckResult, 0, len(c.cfg.Env.Required))

	for _, name := range c.cfg.Env.Required {
		result := CheckResult{
			Name:     "env:" + name,
			Required: true,
		}

		if value, ok := c.lookupEnv(name); ok && value != "" {
			result.Status = StatusPass
			result.Message = fmt.Sprintf("%s is set: %s", name, value)
		} else {
			result.Status = StatusWarn
			result.Message = fmt.Sprintf("%s is missing (may be set at runtime)", name)
			result.Err = deployerrors.New(deployerrors.ErrCodeEnvUnset, name+" is not set", nil).
				WithDetail("variable", name)
		}

		results = append(results, result)
	}

	return results
}

// CheckOptionalEnv reports optional environment variables without counting them.
// Values are never printed since these hold URLs and credentials.
func (c *Checker) CheckOptionalEnv() []CheckResult {
	results := make([]CheckResult, 0, len(c.cfg.Env.Optional))

	for _, name := range c.cfg.Env.Optional {
		result := CheckResult{Name: "env:" + name}

		if value, ok := c.lookupEnv(name); ok && value != "" {
			result.Status = StatusPass
			result.Message = name + " is set"
		} else {
			result.Status = StatusInfo
			result.Message = name + " not set (will be configured during deployment)"
		}

		results = append(results, result)
	}

	return results
}
