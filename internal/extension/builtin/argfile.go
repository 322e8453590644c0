// SPDX-License-Identifier: MPL-2.0

// Package builtin holds the extensions that ship with launchkit.
package builtin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"github.com/launchkit/launchkit/internal/extension"
	"github.com/launchkit/launchkit/pkg/launch"
)

const (
	// ArgFileName is the name ArgFile is disabled by (launchkit.disable.argfile).
	ArgFileName = "argfile"
	// EnableKey turns the built-in extensions on when defined, e.g. -Dlaunchkit.argfile.
	EnableKey = "launchkit.argfile"
)

// ArgFile expands "@path" arguments into the words of the file at path, split with
// shell quoting rules. The file is looked up in the launch environment first and on
// disk second. "@@x" passes "@x" through literally.
type ArgFile struct{}

// All returns the built-in extensions.
func All() []launch.Extension {
	return []launch.Extension{ArgFile{}}
}

// Discoverer returns the built-in extensions for launches that define EnableKey.
// Applications that always want them register them in their catalog instead.
func Discoverer() extension.Discoverer {
	return extension.OptIn{Key: EnableKey, Extensions: All()}
}

// Order implements launch.Extension.
func (ArgFile) Order() int { return 100 }

// Name implements launch.Extension.
func (ArgFile) Name() string { return ArgFileName }

// Initialize implements launch.Extension.
func (ArgFile) Initialize(ctx context.Context, args []string, _ string) ([]string, error) {
	res, _ := launch.ResourcesFrom(ctx)

	out := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "@@"):
			out = append(out, arg[1:])
		case len(arg) > 1 && arg[0] == '@':
			words, err := expandArgFile(res, arg[1:])
			if err != nil {
				return nil, err
			}
			out = append(out, words...)
		default:
			out = append(out, arg)
		}
	}
	return out, nil
}

func expandArgFile(res launch.Resources, name string) ([]string, error) {
	data, err := readArgFile(res, name)
	if err != nil {
		return nil, fmt.Errorf("read argument file %s: %w", name, err)
	}

	words, err := shell.Fields(string(data), os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("parse argument file %s: %w", name, err)
	}
	return words, nil
}

func readArgFile(res launch.Resources, name string) ([]byte, error) {
	if res != nil && fs.ValidPath(name) {
		data, err := fs.ReadFile(res, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return os.ReadFile(name)
}
