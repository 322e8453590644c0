// SPDX-License-Identifier: MPL-2.0

package boot

import "fmt"

// Stages of a launch, as reported by Error.
const (
	StageSettings    Stage = "settings"
	StageLocate      Stage = "locate"
	StageInspect     Stage = "inspect"
	StageEnvironment Stage = "environment"
	StageExtensions  Stage = "extensions"
	StageDispatch    Stage = "dispatch"
)

type (
	// Stage names the step of a launch that failed.
	Stage string

	// Error is a failure of the launcher itself. Errors returned by the application's
	// entry point are never wrapped in an Error.
	Error struct {
		Stage Stage
		Err   error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("launch failed (%s): %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

func stageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Stage: stage, Err: err}
}
