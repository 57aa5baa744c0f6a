// SPDX-License-Identifier: MPL-2.0

// Package discovery locates a project's zenvfile by walking from the
// working directory upward to the filesystem root. The first directory
// containing a zenvfile wins; zenvfile.cue is preferred over
// zenvfile.json within one directory.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zenv-dev/zenv/pkg/zenvfile"
)

// ErrNoZenvfile means the walk reached the filesystem root without
// finding a zenvfile.
var ErrNoZenvfile = errors.New("no zenvfile found")

// Result describes a discovered project file.
type Result struct {
	// Path is the absolute path of the zenvfile.
	Path string

	// ProjectDir is the directory containing it, treated as the project
	// root.
	ProjectDir string
}

// fileNames in precedence order within one directory.
var fileNames = []string{zenvfile.FileNameCUE, zenvfile.FileNameJSON}

// InDir returns the zenvfile path inside dir, if one exists.
func InDir(dir string) (string, bool) {
	for _, name := range fileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Find walks from startDir up to the filesystem root and returns the
// first zenvfile found.
func Find(startDir string) (*Result, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolve start directory: %w", err)
	}

	for {
		if path, ok := InDir(dir); ok {
			return &Result{Path: path, ProjectDir: dir}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w (searched from %s upward)", ErrNoZenvfile, startDir)
		}
		dir = parent
	}
}

// FindFromWorkingDir is Find starting at the current working directory.
func FindFromWorkingDir() (*Result, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determine working directory: %w", err)
	}
	return Find(wd)
}
