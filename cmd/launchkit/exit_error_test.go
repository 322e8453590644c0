// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/launchkit/launchkit/pkg/types"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{name: "nil", err: nil, want: types.ExitSuccess},
		{name: "plain error", err: errors.New("boom"), want: types.ExitFailure},
		{name: "usage", err: &ExitError{Code: types.ExitUsage}, want: types.ExitUsage},
		{name: "wrapped", err: fmt.Errorf("run: %w", &ExitError{Code: 3}), want: 3},
		{name: "out of range", err: &ExitError{Code: 300}, want: types.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitError_Message(t *testing.T) {
	t.Parallel()

	inner := errors.New("application said no")
	withErr := &ExitError{Code: 1, Err: inner}
	if withErr.Error() != "application said no" || !errors.Is(withErr, inner) {
		t.Errorf("ExitError with Err = %q", withErr.Error())
	}

	bare := &ExitError{Code: 254}
	if bare.Error() != "exit status 254" {
		t.Errorf("ExitError without Err = %q", bare.Error())
	}
}
