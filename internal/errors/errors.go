// Package errors provides standardized error types for the spabuild tool.
//
// The errors package defines domain-specific error types that let the CLI
// tell configuration mistakes apart from bundle failures and dev-server
// problems, and print consistent messages for each.
//
// # Error Types
//
// BuildError is the primary error type, containing:
//   - Code: Categorizes the error (CONFIG, BUNDLE, SERVER, etc.)
//   - Message: Human-readable error description
//   - Subject: The file, extension or proxy prefix involved (if applicable)
//   - Err: The underlying wrapped error (if any)
//
// # Sentinel Errors
//
// Common error scenarios have pre-defined sentinel errors:
//
//	errors.ErrConfigNotFound   // no spabuild.yaml where one was required
//	errors.ErrConfigInvalid    // config file failed to parse or validate
//	errors.ErrBundleFailed     // esbuild reported errors
//	errors.ErrUnknownExtension // extension name not in the registry
//
// # Usage
//
//	// Validation error
//	return errors.Validation("server.port must be between 1 and 65535")
//
//	// Error about a specific file or rule
//	return errors.WrapSubject(errors.ErrCodeNotFound, "src/main.jsx", err)
//
//	// Wrapping an underlying error
//	return errors.Wrap(errors.ErrCodeConfig, "failed to parse config", err)
//
// # Error Checking
//
// Use errors.Is for sentinel error comparison (matching is by code):
//
//	if errors.Is(err, errors.ErrBundleFailed) {
//	    // Handle bundle failure
//	}
//
// Use errors.As for type assertion:
//
//	var buildErr *errors.BuildError
//	if errors.As(err, &buildErr) {
//	    fmt.Printf("Error code: %s, Subject: %s\n", buildErr.Code, buildErr.Subject)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"  // File or resource not found
	ErrCodeValidation ErrorCode = "VALIDATION" // Config validation failed
	ErrCodeConfig     ErrorCode = "CONFIG"     // Config file unreadable or malformed
	ErrCodeExtension  ErrorCode = "EXTENSION"  // Unknown or misconfigured extension
	ErrCodeBundle     ErrorCode = "BUNDLE"     // esbuild reported errors
	ErrCodeHook       ErrorCode = "HOOK"       // Post-build hook failure (never fatal)
	ErrCodeServer     ErrorCode = "SERVER"     // Dev server error
	ErrCodeProxy      ErrorCode = "PROXY"      // Proxy upstream error
	ErrCodeInternal   ErrorCode = "INTERNAL"   // Internal/unexpected error
)

// BuildError represents a structured error with context about the operation.
type BuildError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Subject string    // File, extension name or proxy prefix (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	msg := e.Message
	if msg == "" && e.Err == nil {
		msg = string(e.Code)
	}
	switch {
	case e.Subject != "" && msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Subject, msg, e.Err)
	case e.Subject != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Subject, e.Err)
	case e.Subject != "":
		return fmt.Sprintf("%s: %s", e.Subject, msg)
	case e.Err != nil && msg != "":
		return fmt.Sprintf("%s: %v", msg, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain traversal.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *BuildError) Is(target error) bool {
	t, ok := target.(*BuildError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrConfigNotFound indicates no config file exists where one was required.
	ErrConfigNotFound = &BuildError{Code: ErrCodeNotFound, Message: "config file not found"}

	// ErrConfigInvalid indicates the configuration failed to parse or validate.
	ErrConfigInvalid = &BuildError{Code: ErrCodeConfig, Message: "invalid configuration"}

	// ErrValidation indicates a field of the configuration is out of range.
	ErrValidation = &BuildError{Code: ErrCodeValidation, Message: "validation failed"}

	// ErrUnknownExtension indicates an extension name missing from the registry.
	ErrUnknownExtension = &BuildError{Code: ErrCodeExtension, Message: "unknown extension"}

	// ErrBundleFailed indicates esbuild reported at least one error.
	ErrBundleFailed = &BuildError{Code: ErrCodeBundle, Message: "bundle failed"}

	// ErrServer indicates the dev server could not start or stopped unexpectedly.
	ErrServer = &BuildError{Code: ErrCodeServer, Message: "dev server error"}
)

// NotFound creates an error for a file that doesn't exist.
func NotFound(path string) error {
	return &BuildError{
		Code:    ErrCodeNotFound,
		Message: "not found",
		Subject: path,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &BuildError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return Validation(fmt.Sprintf(format, args...))
}

// UnknownExtension creates an error naming the unregistered extension.
func UnknownExtension(name string) error {
	return &BuildError{
		Code:    ErrCodeExtension,
		Message: "unknown extension",
		Subject: name,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &BuildError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapSubject creates an error with subject context and underlying error.
func WrapSubject(code ErrorCode, subject string, err error) error {
	return &BuildError{
		Code:    code,
		Subject: subject,
		Err:     err,
	}
}

// CodeOf returns the code of the first BuildError in err's chain,
// or ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrCodeInternal
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As

// New is a re-export of errors.New for convenience.
var New = errors.New
