// SPDX-License-Identifier: MPL-2.0

// Package zenvfile defines the schema, parsing, and merging for zenvfile
// project configuration files.
//
// A zenvfile declares the Python environments of one project: a reserved
// "common" section with defaults shared by every environment, and a map
// of named environment sections. Per-environment values win field-by-field
// over common values; list-valued fields are concatenated. The merged
// result is an EffectiveConfig, the settings actually used for setup and
// activation.
package zenvfile

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/zenv-dev/zenv/pkg/hostmatch"
)

// FileNameCUE and FileNameJSON are the accepted zenvfile names. Both
// parse through the same CUE pipeline since CUE is a JSON superset.
const (
	FileNameCUE  = "zenvfile.cue"
	FileNameJSON = "zenvfile.json"
)

type (
	// Zenvfile is one parsed project configuration file.
	Zenvfile struct {
		// BaseDir optionally overrides common.base_dir at the top level.
		BaseDir string `json:"base_dir,omitempty"`

		// Common holds the defaults shared across all environments.
		Common CommonConfig `json:"common"`

		// Envs maps environment names to their definitions.
		Envs map[string]EnvSpec `json:"envs"`

		// FilePath records where the file was loaded from (not part of
		// the document itself).
		FilePath string `json:"-"`
	}

	// CommonConfig is the reserved "common" section.
	CommonConfig struct {
		// BaseDir is the directory, relative to the project, under which
		// virtual environments are created. Required here unless the
		// top-level override is given.
		BaseDir string `json:"base_dir,omitempty"`

		// Python is the default python executable for all environments.
		Python string `json:"python,omitempty"`

		// Requirements is the default requirements-file name. Required.
		Requirements string `json:"requirements,omitempty"`

		Modules      []string          `json:"modules,omitempty"`
		Dependencies []string          `json:"dependencies,omitempty"`
		Vars         map[string]string `json:"vars,omitempty"`
		Commands     []string          `json:"commands,omitempty"`
	}

	// EnvSpec is one named environment section. All fields are optional;
	// unset fields fall back to the common section at merge time.
	EnvSpec struct {
		// Targets restricts which machines the environment is valid on.
		// Absent targets trigger cluster-name auto-targeting.
		Targets TargetList `json:"targets,omitempty"`

		Python       string            `json:"python,omitempty"`
		Modules      []string          `json:"modules,omitempty"`
		Dependencies []string          `json:"dependencies,omitempty"`
		Requirements string            `json:"requirements,omitempty"`
		Description  string            `json:"description,omitempty"`
		Vars         map[string]string `json:"vars,omitempty"`
		Commands     []string          `json:"commands,omitempty"`
	}

	// TargetList is an ordered list of host patterns. The zenvfile may
	// give either a single string or a list of strings.
	TargetList []hostmatch.Pattern
)

// UnmarshalJSON accepts both "jureca" and ["jureca", "juwels*"].
func (l *TargetList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = TargetList{hostmatch.Pattern(single)}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("targets must be a string or a list of strings: %w", err)
	}
	patterns := make(TargetList, len(many))
	for i, s := range many {
		patterns[i] = hostmatch.Pattern(s)
	}
	*l = patterns
	return nil
}

// MarshalJSON renders the list form.
func (l TargetList) MarshalJSON() ([]byte, error) {
	many := make([]string, len(l))
	for i, p := range l {
		many[i] = string(p)
	}
	return json.Marshal(many)
}

// Env returns the named environment section.
func (z *Zenvfile) Env(name string) (EnvSpec, bool) {
	env, ok := z.Envs[name]
	return env, ok
}

// EnvNames returns the defined environment names in sorted order.
func (z *Zenvfile) EnvNames() []string {
	names := make([]string, 0, len(z.Envs))
	for name := range z.Envs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// EffectiveBaseDir resolves the environments base directory: the
// top-level override wins over common.base_dir.
func (z *Zenvfile) EffectiveBaseDir() string {
	if z.BaseDir != "" {
		return z.BaseDir
	}
	return z.Common.BaseDir
}
