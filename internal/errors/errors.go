// Package errors provides shared error types for the Confluence uploader.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// NotFoundError indicates a page title has no exact match in a space.
type NotFoundError struct {
	Space string
	Title string
}

func (e *NotFoundError) Error() string {
	if e.Space != "" {
		return fmt.Sprintf("page not found in space %s: %q", e.Space, e.Title)
	}
	return fmt.Sprintf("page not found: %q", e.Title)
}

// NewNotFoundError creates a NotFoundError for a page lookup.
func NewNotFoundError(space, title string) *NotFoundError {
	return &NotFoundError{
		Space: space,
		Title: title,
	}
}

// ValidationError indicates invalid input parameters.
type ValidationError struct {
	Field   string // field name that failed validation
	Value   string // the invalid value (may be empty for sensitive data)
	Message string // human-readable error message
}

func (e *ValidationError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("validation failed for %s=%q: %s", e.Field, e.Value, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ConfigError is a fatal startup problem, such as missing credentials.
// Remediation holds lines telling the user how to fix it.
type ConfigError struct {
	Message     string
	Remediation []string
}

func (e *ConfigError) Error() string {
	if len(e.Remediation) == 0 {
		return e.Message
	}
	return e.Message + "\n  " + strings.Join(e.Remediation, "\n  ")
}

// NewConfigError creates a ConfigError.
func NewConfigError(message string, remediation ...string) *ConfigError {
	return &ConfigError{
		Message:     message,
		Remediation: remediation,
	}
}

// APIError is a non-success response from the content API.
type APIError struct {
	Operation  string // "create", "delete", "find"
	Title      string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %q: HTTP %d: %s", e.Operation, e.Title, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %q: HTTP %d", e.Operation, e.Title, e.StatusCode)
}

// NewAPIError creates an APIError.
func NewAPIError(operation, title string, status int, message string) *APIError {
	return &APIError{
		Operation:  operation,
		Title:      title,
		StatusCode: status,
		Message:    message,
	}
}

// IsNotFound returns true if err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

// IsConfig returns true if err is or wraps a ConfigError.
func IsConfig(err error) bool {
	var target *ConfigError
	return stderrors.As(err, &target)
}

// IsAPI returns true if err is or wraps an APIError.
func IsAPI(err error) bool {
	var target *APIError
	return stderrors.As(err, &target)
}

// StatusCode extracts the HTTP status from an APIError, or 0.
func StatusCode(err error) int {
	var target *APIError
	if stderrors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}
