// SPDX-License-Identifier: MPL-2.0

// Package registry maintains the durable, ID-addressable catalog of
// set-up environments.
//
// The registry is a single TOML file at a fixed user-scoped location,
// loaded fully into memory at process start and rewritten wholesale
// after any mutation. The ID is the only true primary key; environment
// names are unique only among entries sharing a project directory.
package registry

import (
	"path/filepath"

	"github.com/zenv-dev/zenv/pkg/hostmatch"
)

// Entry is one persisted environment record.
type Entry struct {
	// ID is the generated hex identifier, unique within the registry.
	ID string `toml:"id"`

	// Name is the environment name from the zenvfile. Names may repeat
	// across different project directories.
	Name string `toml:"env_name"`

	// ProjectDir is the absolute path of the project the environment
	// belongs to.
	ProjectDir string `toml:"project_dir"`

	// VenvPath is the absolute virtual-environment path, derived from
	// project dir, base dir, and name at registration time.
	VenvPath string `toml:"venv_path"`

	// TargetMachines is the comma-joined target-pattern string,
	// denormalized for display and re-parsing.
	TargetMachines string `toml:"target_machines"`

	// Description is free-form and optional.
	Description string `toml:"description,omitempty"`
}

// Targets re-parses the denormalized target-machine string.
func (e *Entry) Targets() []hostmatch.Pattern {
	return hostmatch.ParseList(e.TargetMachines)
}

// EligibleOn reports whether the entry's targets cover the hostname.
func (e *Entry) EligibleOn(hostname string) bool {
	return hostmatch.MatchesAny(hostname, e.Targets())
}

// VenvPathFor derives the virtual-environment path for an environment:
// the configured base dir under the project dir, then the env name.
func VenvPathFor(projectDir, baseDir, name string) string {
	return filepath.Join(projectDir, baseDir, name)
}
