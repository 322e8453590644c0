// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the launchkit command line.
//
// Execute runs the launchkit tool itself: run, inspect, pack and config. ExecuteSelf is
// the root for application binaries that carry their own archive; it accepts only the
// launcher options -R, -D and -P and hands every other argument to the application.
package cmd
