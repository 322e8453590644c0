// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/launchkit/launchkit/internal/archive"
	"github.com/launchkit/launchkit/internal/boot"
	"github.com/launchkit/launchkit/internal/config"
	"github.com/launchkit/launchkit/internal/dispatch"
	"github.com/launchkit/launchkit/internal/extension"
	"github.com/launchkit/launchkit/internal/issue"
)

// ServiceError carries a launcher failure together with what the CLI should show
// for it.
type ServiceError struct {
	// Err is the underlying error.
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError. It panics when err is nil.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError prints the styled message, then the issue guidance if any.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			fmt.Fprintln(stderr, string(catalogEntry.MarkdownMsg()))
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}

// isLauncherError reports whether err was produced by launchkit rather than by the
// launched application.
func isLauncherError(err error) bool {
	var launchErr *boot.Error
	return errors.As(err, &launchErr)
}

// classifyLaunchError maps launcher failures to issue catalog IDs and returns a styled
// message for CLI rendering.
func classifyLaunchError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	switch {
	case errors.Is(err, extension.ErrExtensionFailed):
		issueID = issue.ExtensionFailedId
	case errors.Is(err, dispatch.ErrNoEntrySignature):
		issueID = issue.EntrySignatureUnsupportedId
	case errors.Is(err, config.ErrDuplicateKey):
		issueID = issue.DuplicatePropertyId
	case errors.Is(err, boot.ErrEntryRequired):
		issueID = issue.EntrySymbolMissingId
	case errors.Is(err, archive.ErrNoOrigin),
		errors.Is(err, archive.ErrScan) && errors.Is(err, fs.ErrNotExist):
		issueID = issue.ArchiveNotFoundId
	case errors.Is(err, archive.ErrScan):
		issueID = issue.ArchiveUnreadableId
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// formatErrorForDisplay formats an error for user display. ActionableErrors use their
// Format method; verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
