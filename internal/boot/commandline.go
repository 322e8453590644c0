// SPDX-License-Identifier: MPL-2.0

package boot

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/launchkit/launchkit/internal/config"
)

// Launcher options recognized on a self-launch command line. Each takes its value in
// the same argument.
const (
	EntryOption      = "-R"
	DefineOption     = "-D"
	PropertiesOption = "-P"
)

// ErrEmptyOption is returned when a launcher option carries no value.
var ErrEmptyOption = errors.New("launcher option has no value")

type (
	// Definition is one -D<key>[=<value>] setting.
	Definition struct {
		Key   string
		Value string
	}

	// CommandLine is a command line split into launcher options and application
	// arguments.
	CommandLine struct {
		// Entry is the last -R value, or empty.
		Entry string
		// Definitions are the -D settings in command line order.
		Definitions []Definition
		// PropertyFiles are the -P files in command line order.
		PropertyFiles []string
		// Args are the remaining arguments, passed to the application.
		Args []string
	}
)

// ParseCommandLine consumes the launcher options in args. Options may appear anywhere;
// every other argument is kept for the application in its original order. A -D without
// "=" defines the key as "true".
func ParseCommandLine(args []string) (CommandLine, error) {
	var cl CommandLine
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, DefineOption):
			def, err := ParseDefinition(arg[len(DefineOption):])
			if err != nil {
				return CommandLine{}, err
			}
			cl.Definitions = append(cl.Definitions, def)
		case strings.HasPrefix(arg, PropertiesOption):
			file := arg[len(PropertiesOption):]
			if file == "" {
				return CommandLine{}, fmt.Errorf("%w: %s<file>", ErrEmptyOption, PropertiesOption)
			}
			cl.PropertyFiles = append(cl.PropertyFiles, file)
		case strings.HasPrefix(arg, EntryOption):
			entry := arg[len(EntryOption):]
			if entry == "" {
				return CommandLine{}, fmt.Errorf("%w: %s<symbol>", ErrEmptyOption, EntryOption)
			}
			cl.Entry = entry
		default:
			cl.Args = append(cl.Args, arg)
		}
	}
	return cl, nil
}

// ParseDefinition parses "key=value", or "key" meaning "key=true".
func ParseDefinition(s string) (Definition, error) {
	key, value, found := strings.Cut(s, "=")
	if key == "" {
		return Definition{}, fmt.Errorf("%w: %s<name>[=<value>]", ErrEmptyOption, DefineOption)
	}
	if !found {
		value = "true"
	}
	return Definition{Key: key, Value: value}, nil
}

// Merge returns cl overridden by over. A non-empty entry in over wins, option lists
// are concatenated with cl's first, and over's arguments follow cl's.
func (cl CommandLine) Merge(over CommandLine) CommandLine {
	return CommandLine{
		Entry:         cmp.Or(over.Entry, cl.Entry),
		Definitions:   slices.Concat(cl.Definitions, over.Definitions),
		PropertyFiles: slices.Concat(cl.PropertyFiles, over.PropertyFiles),
		Args:          slices.Concat(cl.Args, over.Args),
	}
}

// Apply layers the property files, then the definitions, over settings.
func (cl CommandLine) Apply(settings *config.Settings) error {
	for _, file := range cl.PropertyFiles {
		if err := settings.ApplyFile(file); err != nil {
			return fmt.Errorf("failed to load properties %s: %w", file, err)
		}
	}
	for _, def := range cl.Definitions {
		settings.Define(def.Key, def.Value)
	}
	return nil
}
