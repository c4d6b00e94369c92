package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNotFoundError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		expected string
	}{
		{
			name:     "with space",
			err:      &NotFoundError{Space: "PM", Title: "Artefacts"},
			expected: `page not found in space PM: "Artefacts"`,
		},
		{
			name:     "without space",
			err:      &NotFoundError{Title: "Docs - Intro"},
			expected: `page not found: "Docs - Intro"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("NotFoundError.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("PM", "Artefacts")

	if err.Space != "PM" {
		t.Errorf("Space = %q, want %q", err.Space, "PM")
	}
	if err.Title != "Artefacts" {
		t.Errorf("Title = %q, want %q", err.Title, "Artefacts")
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name: "with field and value",
			err: &ValidationError{
				Field:   "parent_id",
				Value:   "abc",
				Message: "must contain digits only",
			},
			expected: "validation failed for parent_id=\"abc\": must contain digits only",
		},
		{
			name: "with field only",
			err: &ValidationError{
				Field:   "space",
				Message: "cannot be blank",
			},
			expected: "validation failed for space: cannot be blank",
		},
		{
			name:     "message only",
			err:      &ValidationError{Message: "bad input"},
			expected: "validation failed: bad input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := NewConfigError("missing credentials", "export CONFLUENCE_EMAIL=you@company.com")
	got := err.Error()

	if !strings.HasPrefix(got, "missing credentials") {
		t.Errorf("Error() = %q, want prefix %q", got, "missing credentials")
	}
	if !strings.Contains(got, "export CONFLUENCE_EMAIL") {
		t.Errorf("Error() = %q, should include remediation", got)
	}

	bare := NewConfigError("not a directory: /tmp/x")
	if bare.Error() != "not a directory: /tmp/x" {
		t.Errorf("Error() = %q, want message only", bare.Error())
	}
}

func TestAPIError_Error(t *testing.T) {
	withMsg := NewAPIError("create", "Docs", 400, "A page with this title already exists")
	want := `create "Docs": HTTP 400: A page with this title already exists`
	if withMsg.Error() != want {
		t.Errorf("Error() = %q, want %q", withMsg.Error(), want)
	}

	noMsg := NewAPIError("delete", "Docs", 500, "")
	if noMsg.Error() != `delete "Docs": HTTP 500` {
		t.Errorf("Error() = %q", noMsg.Error())
	}
}

func TestIsHelpers(t *testing.T) {
	notFound := NewNotFoundError("PM", "x")
	validation := NewValidationError("space", "", "required")
	config := NewConfigError("missing")
	api := NewAPIError("create", "x", 403, "forbidden")

	tests := []struct {
		name string
		fn   func(error) bool
		yes  error
		no   error
	}{
		{"IsNotFound", IsNotFound, notFound, validation},
		{"IsValidation", IsValidation, validation, config},
		{"IsConfig", IsConfig, config, api},
		{"IsAPI", IsAPI, api, notFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.fn(tt.yes) {
				t.Errorf("%s(%v) = false, want true", tt.name, tt.yes)
			}
			if !tt.fn(fmt.Errorf("wrapped: %w", tt.yes)) {
				t.Errorf("%s should see through wrapping", tt.name)
			}
			if tt.fn(tt.no) {
				t.Errorf("%s(%v) = true, want false", tt.name, tt.no)
			}
			if tt.fn(nil) {
				t.Errorf("%s(nil) = true, want false", tt.name)
			}
			if tt.fn(errors.New("plain")) {
				t.Errorf("%s(plain) = true, want false", tt.name)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	err := fmt.Errorf("upload: %w", NewAPIError("create", "x", 409, ""))
	if got := StatusCode(err); got != 409 {
		t.Errorf("StatusCode() = %d, want 409", got)
	}
	if got := StatusCode(errors.New("plain")); got != 0 {
		t.Errorf("StatusCode(plain) = %d, want 0", got)
	}
}
