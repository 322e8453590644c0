// SPDX-License-Identifier: MPL-2.0

// Package config handles launcher configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/launchkit/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/launchkit/config.cue on macOS, %APPDATA%\launchkit\config.cue
// on Windows) and validated against the embedded config_schema.cue. LAUNCHKIT_* environment
// variables override file values.
//
// The launcher itself reads flat string settings (launchkit.libraryOrder,
// launchkit.disable.<name>, ...). Settings layers the typed Config with properties files
// given via -P and single definitions given via -D.
package config
