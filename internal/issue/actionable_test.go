// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "scan archive"},
			expected: "failed to scan archive",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "scan archive", Resource: "/opt/app.zip"},
			expected: "failed to scan archive: /opt/app.zip",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "scan archive",
				Resource:  "/opt/app.zip",
				Cause:     errors.New("zip: not a valid zip file"),
			},
			expected: "failed to scan archive: /opt/app.zip: zip: not a valid zip file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	cause := errors.New("specific error")
	err := NewErrorContext().WithOperation("open environment").Wrap(cause).BuildError()

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As should find the ActionableError")
	}
	if ae.Operation != "open environment" {
		t.Errorf("Operation = %q", ae.Operation)
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("permission denied")
	err := NewErrorContext().
		WithOperation("scan archive").
		WithResource("app.zip").
		WithSuggestion("Check file permissions").
		WithSuggestion("Rebuild the archive").
		Wrap(errors.Join(inner)).
		Build()

	plain := err.Format(false)
	for _, want := range []string{"failed to scan archive: app.zip", "• Check file permissions", "• Rebuild the archive"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) missing %q in:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "1. permission denied") {
		t.Errorf("Format(true) missing error chain:\n%s", verbose)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}
}
