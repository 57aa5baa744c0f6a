// SPDX-License-Identifier: MPL-2.0

package setup

import (
	"context"
	"io"
	"os/exec"
)

// Runner abstracts external process execution so the pipeline is
// testable without a shell, a module system, or a Python toolchain.
type Runner interface {
	// Run executes name with args in dir, streaming output to stdout and
	// stderr. A non-zero exit is returned as an error.
	Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error
}

// ExecRunner runs processes through os/exec. It is the production Runner.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
