// SPDX-License-Identifier: MPL-2.0

package setup

import (
	"fmt"

	"github.com/zenv-dev/zenv/pkg/types"
)

// ProcessError reports a failed external collaborator (module system,
// Python, pip, or a custom setup command). Its message names the failing
// command so the CLI can print it without an internal stack trace; the
// underlying exec error stays reachable through Unwrap for verbose mode.
type ProcessError struct {
	Step    string
	Command string
	Cause   error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s: %q failed: %v", e.Step, e.Command, e.Cause)
}

// Unwrap returns the underlying process error.
func (e *ProcessError) Unwrap() error { return e.Cause }

// ExitCode returns the exit code of the failed process, or 1 when the
// process never ran.
func (e *ProcessError) ExitCode() types.ExitCode {
	return types.ExitCodeFromError(e.Cause)
}
