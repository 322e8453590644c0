// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/launchkit/launchkit/internal/boot"
	"github.com/launchkit/launchkit/pkg/types"
)

// Tests in this file set OptsEnv and cannot run in parallel.

func TestCommandLineFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    boot.CommandLine
		wantErr bool
	}{
		{name: "unset", value: ""},
		{name: "blank", value: "   "},
		{
			name:  "options",
			value: "-Rapp.Main -Dk=v -Pa.properties",
			want: boot.CommandLine{
				Entry:         "app.Main",
				Definitions:   []boot.Definition{{Key: "k", Value: "v"}},
				PropertyFiles: []string{"a.properties"},
			},
		},
		{
			name:  "quoted value",
			value: `-D'greeting=hello world' -Dflag`,
			want: boot.CommandLine{
				Definitions: []boot.Definition{{Key: "greeting", Value: "hello world"}, {Key: "flag", Value: "true"}},
			},
		},
		{name: "application argument", value: "-Dk=v serve", wantErr: true},
		{name: "empty entry", value: "-R", wantErr: true},
		{name: "unterminated quote", value: "-D'k=v", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(OptsEnv, tt.value)

			got, err := commandLineFromEnv()
			if tt.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), OptsEnv)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSelfCommand_BadOption(t *testing.T) {
	t.Setenv(OptsEnv, "")

	app, _, stderr := newTestApp(t, nil)
	self := NewSelfCommand(app)
	self.SetArgs([]string{"-Rapp.Main", "-D=oops"})

	err := self.ExecuteContext(t.Context())
	require.ErrorIs(t, err, boot.ErrEmptyOption)
	require.Equal(t, types.ExitFailure, exitCode(err))
	require.Contains(t, stderr.String(), "Error:")

	var launchErr *boot.Error
	require.True(t, errors.As(err, &launchErr))
	require.Equal(t, boot.StageSettings, launchErr.Stage)
}
