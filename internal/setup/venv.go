// SPDX-License-Identifier: MPL-2.0

package setup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zenv-dev/zenv/internal/log"
)

// venvBinDir returns the directory holding the venv's executables.
// Activation scripts target POSIX shells, so this is always "bin".
func venvBinDir(venvPath string) string {
	return filepath.Join(venvPath, "bin")
}

// venvPython returns the path of the interpreter inside the venv.
func venvPython(venvPath string) string {
	return filepath.Join(venvBinDir(venvPath), "python")
}

// venvExists reports whether venvPath already looks like a virtual
// environment (has an interpreter under bin/).
func venvExists(venvPath string) bool {
	info, err := os.Stat(venvPython(venvPath))
	return err == nil && !info.IsDir()
}

// ensureVenv creates the virtual environment at venvPath using the
// configured python. An existing venv is left alone unless recreate is
// set, in which case it is removed and rebuilt.
func ensureVenv(ctx context.Context, runner Runner, dir, python, venvPath string, recreate bool, stdout, stderr io.Writer) error {
	if venvExists(venvPath) {
		if !recreate {
			log.Debug("virtual environment already exists", "path", venvPath)
			return nil
		}
		log.Info("removing existing virtual environment", "path", venvPath)
		if err := os.RemoveAll(venvPath); err != nil {
			return fmt.Errorf("remove existing virtual environment %s: %w", venvPath, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(venvPath), 0o755); err != nil {
		return fmt.Errorf("create environment directory: %w", err)
	}

	log.Info("creating virtual environment", "python", python, "path", venvPath)
	if err := runner.Run(ctx, dir, stdout, stderr, python, "-m", "venv", venvPath); err != nil {
		return &ProcessError{
			Step:    "create virtual environment",
			Command: fmt.Sprintf("%s -m venv %s", python, venvPath),
			Cause:   err,
		}
	}
	return nil
}

// installDependencies installs the deduped dependency list and, when a
// requirements file exists in the project, its pinned requirements. Both
// go through the venv's own interpreter so the install targets the venv
// regardless of the caller's PATH.
func installDependencies(ctx context.Context, runner Runner, dir, venvPath string, deps []string, requirements string, stdout, stderr io.Writer) error {
	python := venvPython(venvPath)

	if len(deps) > 0 {
		log.Info("installing dependencies", "count", len(deps))
		args := append([]string{"-m", "pip", "install"}, deps...)
		if err := runner.Run(ctx, dir, stdout, stderr, python, args...); err != nil {
			return &ProcessError{
				Step:    "install dependencies",
				Command: fmt.Sprintf("pip install %s", strings.Join(deps, " ")),
				Cause:   err,
			}
		}
	}

	if requirements != "" {
		reqPath := requirements
		if !filepath.IsAbs(reqPath) {
			reqPath = filepath.Join(dir, requirements)
		}
		if _, err := os.Stat(reqPath); err != nil {
			log.Debug("requirements file not present, skipping", "path", reqPath)
			return nil
		}
		log.Info("installing requirements", "file", requirements)
		if err := runner.Run(ctx, dir, stdout, stderr, python, "-m", "pip", "install", "-r", reqPath); err != nil {
			return &ProcessError{
				Step:    "install requirements",
				Command: fmt.Sprintf("pip install -r %s", requirements),
				Cause:   err,
			}
		}
	}

	return nil
}
