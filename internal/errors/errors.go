package errors

import (
	"fmt"
)

// DeployError is a coded error attached to a check item or returned by the CLI.
// Category and Severity follow from Code; see New.
type DeployError struct {
	Code       string
	Message    string
	Category   Category
	Severity   Severity
	Details    map[string]string
	Cause      error
	Suggestion string
}

func (e *DeployError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DeployError) Unwrap() error {
	return e.Cause
}

// Is matches another DeployError with the same code.
func (e *DeployError) Is(target error) bool {
	t, ok := target.(*DeployError)
	return ok && t != nil && e.Code == t.Code
}

// WithDetail records a key-value pair shown in logs.
func (e *DeployError) WithDetail(key, value string) *DeployError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion sets the hint printed under the error.
func (e *DeployError) WithSuggestion(suggestion string) *DeployError {
	e.Suggestion = suggestion
	return e
}

// New creates a DeployError; category and severity are derived from code.
func New(code string, message string, cause error) *DeployError {
	return &DeployError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap uses err's message as the DeployError message. A nil err yields nil.
func Wrap(code string, err error) *DeployError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

func ConfigError(message string, cause error) *DeployError {
	return New(ErrCodeConfigInvalid, message, cause)
}

func IOError(message string, cause error) *DeployError {
	return New(ErrCodeFileNotFound, message, cause)
}

func ValidationError(message string, cause error) *DeployError {
	return New(ErrCodeInvalidInput, message, cause)
}

func InternalError(message string, cause error) *DeployError {
	return New(ErrCodeInternal, message, cause)
}

// IsDeferred reports whether err is a condition that is acceptable before
// deployment: an unset variable, a missing execute bit, an uninstalled
// dependency or configuration the module needs at startup.
func IsDeferred(err error) bool {
	return severityOf(err) == SeverityWarning
}

// IsFatal reports whether err stopped the checks from running at all.
func IsFatal(err error) bool {
	return severityOf(err) == SeverityFatal
}

func severityOf(err error) Severity {
	if de, ok := err.(*DeployError); ok && de != nil {
		return de.Severity
	}
	return ""
}

// GetCode returns the code of a DeployError, or "".
func GetCode(err error) string {
	if de, ok := err.(*DeployError); ok && de != nil {
		return de.Code
	}
	return ""
}

// GetCategory returns the category of a DeployError, or "".
func GetCategory(err error) Category {
	if de, ok := err.(*DeployError); ok && de != nil {
		return de.Category
	}
	return ""
}
