// SPDX-License-Identifier: MPL-2.0

package zenvfile

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/zenv-dev/zenv/pkg/hostmatch"
)

// DefaultPython is the python executable used when neither the
// environment nor the common section names one.
const DefaultPython = "python3"

// ErrEnvNotFound is the sentinel error wrapped by EnvNotFoundError.
var ErrEnvNotFound = errors.New("environment not defined")

type (
	// EnvNotFoundError is returned when a named environment is absent
	// from the configuration file. It carries the defined names so the
	// caller can present them.
	EnvNotFoundError struct {
		Name    string
		Defined []string
	}

	// EffectiveConfig is the fully merged (common + per-environment)
	// configuration used to actually perform setup and activation.
	// It owns fresh copies of every list and map; it never aliases the
	// Zenvfile it was merged from and is never mutated after merging.
	EffectiveConfig struct {
		Name         string
		Python       string
		Targets      []hostmatch.Pattern
		Modules      []string
		Dependencies []string
		Requirements string
		Description  string
		Vars         map[string]string
		Commands     []string
		BaseDir      string

		// AutoTargeted records that Targets was derived from the current
		// hostname's cluster name rather than declared explicitly.
		AutoTargeted bool
	}
)

// Error implements the error interface.
func (e *EnvNotFoundError) Error() string {
	return fmt.Sprintf("environment %q is not defined in the zenvfile", e.Name)
}

// Unwrap returns ErrEnvNotFound so callers can classify with errors.Is.
func (e *EnvNotFoundError) Unwrap() error { return ErrEnvNotFound }

// Merge resolves the named environment against the common section.
//
// Precedence is field-by-field: the environment value wins, then the
// common value, then the hard default (python only). List fields are
// concatenated common-first and never deduplicated here; deduplication
// of the final dependency list is a separate step over the merged
// result. clusterFallback is the cluster name derived from the current
// hostname, used only when the environment declares no targets; an
// empty fallback leaves Targets empty (matches every host).
func (z *Zenvfile) Merge(name, clusterFallback string) (*EffectiveConfig, error) {
	env, ok := z.Env(name)
	if !ok {
		return nil, &EnvNotFoundError{Name: name, Defined: z.EnvNames()}
	}

	eff := &EffectiveConfig{
		Name:         name,
		Python:       firstNonEmpty(env.Python, z.Common.Python, DefaultPython),
		Requirements: firstNonEmpty(env.Requirements, z.Common.Requirements),
		Description:  env.Description,
		BaseDir:      z.EffectiveBaseDir(),
		Modules:      concat(z.Common.Modules, env.Modules),
		Dependencies: concat(z.Common.Dependencies, env.Dependencies),
		Commands:     concat(z.Common.Commands, env.Commands),
		Vars:         mergeVars(z.Common.Vars, env.Vars),
	}

	if len(env.Targets) > 0 {
		eff.Targets = slices.Clone([]hostmatch.Pattern(env.Targets))
	} else if clusterFallback != "" {
		eff.Targets = []hostmatch.Pattern{hostmatch.Pattern(clusterFallback)}
		eff.AutoTargeted = true
	}

	return eff, nil
}

// EligibleOn reports whether the environment may be set up or activated
// on the given hostname: any target pattern matching is enough, and an
// empty target list matches every host.
func (e *EffectiveConfig) EligibleOn(hostname string) bool {
	return hostmatch.MatchesAny(hostname, e.Targets)
}

// DedupedDependencies returns the dependency list with duplicates
// removed, keeping the first occurrence's position. This is the
// validation-stage dedup; Merge itself never deduplicates.
func (e *EffectiveConfig) DedupedDependencies() []string {
	seen := make(map[string]struct{}, len(e.Dependencies))
	deduped := make([]string, 0, len(e.Dependencies))
	for _, dep := range e.Dependencies {
		if _, dup := seen[dep]; dup {
			continue
		}
		seen[dep] = struct{}{}
		deduped = append(deduped, dep)
	}
	return deduped
}

// TargetString renders the target list in the comma-joined registry form.
func (e *EffectiveConfig) TargetString() string {
	return hostmatch.JoinList(e.Targets)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// concat returns a fresh slice of common followed by env, preserving
// order. Returns nil when both inputs are empty.
func concat(common, env []string) []string {
	if len(common) == 0 && len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(common)+len(env))
	out = append(out, common...)
	out = append(out, env...)
	return out
}

// mergeVars starts from the common map and overwrites with environment
// entries: the environment wins on key collision.
func mergeVars(common, env map[string]string) map[string]string {
	if len(common) == 0 && len(env) == 0 {
		return nil
	}
	merged := make(map[string]string, len(common)+len(env))
	maps.Copy(merged, common)
	maps.Copy(merged, env)
	return merged
}
