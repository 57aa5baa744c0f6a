// SPDX-License-Identifier: MPL-2.0

package setup

import (
	"context"
	"fmt"
	"io"

	"github.com/zenv-dev/zenv/internal/log"
)

// loadModules loads HPC environment modules one at a time through a
// login shell, so the site's module function is defined. Failures stop
// the pipeline immediately, naming the module: a partially loaded module
// set would make the later venv and pip steps unreliable.
func loadModules(ctx context.Context, runner Runner, dir string, modules []string, stdout, stderr io.Writer) error {
	for _, mod := range modules {
		log.Debug("loading module", "module", mod)
		cmdline := fmt.Sprintf("module load %s", mod)
		if err := runner.Run(ctx, dir, stdout, stderr, "bash", "-lc", cmdline); err != nil {
			return &ProcessError{
				Step:    fmt.Sprintf("load module %q", mod),
				Command: cmdline,
				Cause:   err,
			}
		}
	}
	return nil
}
