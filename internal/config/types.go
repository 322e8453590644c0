// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// LogLevelDebug logs search path construction and every extension decision.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs the resolved entry symbol and archive version.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only recoverable problems.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only failures.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel selects how much the launcher logs.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// Config is the typed content of config.cue.
	Config struct {
		// LibraryOrder lists substrings; library groups containing an earlier entry
		// are searched first.
		LibraryOrder []string `json:"library_order,omitempty" mapstructure:"library_order"`
		// ExternalRoots lists directories or zip files searched before embedded content.
		ExternalRoots []string `json:"external_roots,omitempty" mapstructure:"external_roots"`
		// Disable names extensions that must not run.
		Disable []string `json:"disable,omitempty" mapstructure:"disable"`
		// LogLevel is the default launcher log level.
		LogLevel LogLevel `json:"log_level,omitempty" mapstructure:"log_level"`
	}

	// InvalidConfigError collects every field problem found by Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Validate returns an error if the level is not one of the known levels.
// The zero value is valid and means "use the default".
func (l LogLevel) Validate() error {
	switch l {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LibraryOrder:  []string{},
		ExternalRoots: []string{},
		Disable:       []string{},
		LogLevel:      LogLevelWarn,
	}
}

// Validate checks constraints the CUE schema cannot see once values come from the
// environment: blank list entries and unknown log levels.
func (c *Config) Validate() error {
	var errs []error

	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, err)
	}

	check := func(field string, values []string) {
		if slices.ContainsFunc(values, func(v string) bool { return strings.TrimSpace(v) == "" }) {
			errs = append(errs, fmt.Errorf("%s: entries must not be blank", field))
		}
	}
	check("library_order", c.LibraryOrder)
	check("external_roots", c.ExternalRoots)
	check("disable", c.Disable)

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}
