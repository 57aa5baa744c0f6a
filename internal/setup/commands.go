// SPDX-License-Identifier: MPL-2.0

package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/zenv-dev/zenv/internal/log"
)

// runCommands executes the custom setup commands in declaration order
// through the embedded POSIX interpreter. Each command runs with the
// venv's bin directory prepended to PATH and the project directory as
// cwd, so "pip install ..." and "python ..." resolve inside the venv.
// The first failing command aborts the whole setup.
func runCommands(ctx context.Context, projectDir, venvPath string, vars map[string]string, commands []string, stdout, stderr io.Writer) error {
	if len(commands) == 0 {
		return nil
	}

	env := commandEnviron(venvPath, vars)
	parser := syntax.NewParser()

	for _, cmdline := range commands {
		log.Debug("running setup command", "command", cmdline)

		prog, err := parser.Parse(strings.NewReader(cmdline), "setup command")
		if err != nil {
			return &ProcessError{
				Step:    "parse setup command",
				Command: cmdline,
				Cause:   err,
			}
		}

		runner, err := interp.New(
			interp.Dir(projectDir),
			interp.Env(expand.ListEnviron(env...)),
			interp.StdIO(nil, stdout, stderr),
		)
		if err != nil {
			return fmt.Errorf("create command interpreter: %w", err)
		}

		if err := runner.Run(ctx, prog); err != nil {
			var status interp.ExitStatus
			if errors.As(err, &status) {
				err = fmt.Errorf("exit status %d", int(status))
			}
			return &ProcessError{
				Step:    "run setup command",
				Command: cmdline,
				Cause:   err,
			}
		}
	}

	return nil
}

// commandEnviron builds the environment for setup commands: the parent
// environment with the venv prepended to PATH and VIRTUAL_ENV set, plus
// the merged custom vars.
func commandEnviron(venvPath string, vars map[string]string) []string {
	binDir := venvBinDir(venvPath)

	env := make([]string, 0, len(os.Environ())+len(vars)+2)
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "PATH=") {
			kv = "PATH=" + binDir + string(os.PathListSeparator) + strings.TrimPrefix(kv, "PATH=")
		}
		env = append(env, kv)
	}
	env = append(env, "VIRTUAL_ENV="+venvPath)
	for k, v := range vars {
		env = append(env, k+"="+v)
	}
	return env
}

// ValidateCommands parses every custom command without executing it, so
// syntax errors surface before any external process runs.
func ValidateCommands(commands []string) error {
	parser := syntax.NewParser()
	for _, cmdline := range commands {
		if _, err := parser.Parse(strings.NewReader(cmdline), "setup command"); err != nil {
			return fmt.Errorf("setup command %q: %w", cmdline, err)
		}
	}
	return nil
}
