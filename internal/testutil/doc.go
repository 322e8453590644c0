// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that build archives and source trees
// on disk. Every helper fails the test immediately instead of returning an error.
package testutil
