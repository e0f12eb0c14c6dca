package cli

import (
	"errors"
	"fmt"
)

// Process exit codes. Operation failures (a document that will not parse,
// a partition that will not save) exit 1; misuse of the command itself
// (unreadable config, bad paths) exits 2.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// ExitError carries the exit code a failed command should terminate with.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string // context shown to the operator
	Err     error  // cause, when there is one
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError attaches an exit code and operator-facing context to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode reports the code carried by err. Errors that never passed
// through WrapExitError map to ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
