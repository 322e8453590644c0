// SPDX-License-Identifier: MPL-2.0

// Package archive reads and writes launchable archives.
//
// A launchable archive is a zip file, either standalone or appended to the launcher
// executable, laid out as:
//
//	META-INF/MANIFEST.MF           Jump-Class, Implementation-Version
//	embedded-classes/...           the application's own resources
//	embedded-libraries/<group>/... one directory per library group
//
// Inspect discovers the library groups and the resource root from directory entries
// only; nothing is extracted. Pack produces archives in this layout, with an explicit
// entry for every directory.
package archive
