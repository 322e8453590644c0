// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries what the launcher was doing, which archive, file or symbol
// was involved, and what the user can try. The Issue catalog holds longer
// Markdown guidance for the failures operators hit most, rendered with glamour.
package issue
