// Package errors provides structured error handling for deploycheck.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (files, manifest, scripts)
//   - 4XX: Validation errors
//   - 5XX: Runtime errors (module loading, internal)
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and manifest errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryRuntime indicates errors raised while loading the main module.
	CategoryRuntime Category = "RUNTIME"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal means the checks cannot run at all.
	SeverityFatal Severity = "FATAL"
	// SeverityError means the check item failed and blocks deployment.
	SeverityError Severity = "ERROR"
	// SeverityWarning means the condition is deferred to deploy time and does not block.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"
	ErrCodeEnvUnset       = "ERR_103_ENV_UNSET"
	ErrCodeRuntimeEnv     = "ERR_104_RUNTIME_ENV_MISSING"

	// IO errors (200-299)
	ErrCodeFileNotFound     = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission   = "ERR_202_FILE_PERMISSION"
	ErrCodeNotExecutable    = "ERR_203_NOT_EXECUTABLE"
	ErrCodeManifestRead     = "ERR_204_MANIFEST_READ"
	ErrCodeManifestInvalid  = "ERR_205_MANIFEST_INVALID"
	ErrCodeDependencyAbsent = "ERR_206_DEPENDENCY_NOT_INSTALLED"

	// Validation errors (400-499)
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidPath  = "ERR_402_INVALID_PATH"

	// Runtime errors (500-599)
	ErrCodeInternal          = "ERR_501_INTERNAL"
	ErrCodeModuleLoad        = "ERR_502_MODULE_LOAD_FAILED"
	ErrCodeLoaderUnavailable = "ERR_503_LOADER_UNAVAILABLE"
	ErrCodeLoaderTimeout     = "ERR_504_LOADER_TIMEOUT"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	numStr := code[4:7]

	switch numStr[0] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	case '5':
		if code == ErrCodeInternal {
			return CategoryInternal
		}
		return CategoryRuntime
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	if isDeferredCode(code) {
		return SeverityWarning
	}

	switch code {
	case ErrCodeConfigInvalid, ErrCodeConfigNotFound:
		return SeverityFatal
	}

	return SeverityError
}

// isDeferredCode reports whether the condition is expected before the
// environment is fully provisioned and will be resolved at deploy time.
func isDeferredCode(code string) bool {
	switch code {
	case ErrCodeEnvUnset, ErrCodeNotExecutable, ErrCodeDependencyAbsent, ErrCodeRuntimeEnv:
		return true
	default:
		return false
	}
}
