// SPDX-License-Identifier: MPL-2.0

// Package setup orchestrates the environment build pipeline: module
// loading, venv creation, dependency installation, custom commands,
// activation-script rendering, and registry registration. The pipeline
// is all-or-nothing; the first failing step aborts with an error that
// names the failing external command.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zenv-dev/zenv/internal/hostname"
	"github.com/zenv-dev/zenv/internal/issue"
	"github.com/zenv-dev/zenv/internal/log"
	"github.com/zenv-dev/zenv/internal/registry"
	"github.com/zenv-dev/zenv/pkg/zenvfile"
)

// ErrHostNotEligible means the current hostname matched none of the
// environment's target patterns.
var ErrHostNotEligible = errors.New("host is not eligible for this environment")

// HostNotEligibleError carries the context of a failed eligibility check.
type HostNotEligibleError struct {
	Hostname string
	EnvName  string
	Targets  string
}

// Error implements the error interface.
func (e *HostNotEligibleError) Error() string {
	return fmt.Sprintf("host %q does not match the targets of environment %q (%s)", e.Hostname, e.EnvName, e.Targets)
}

// Unwrap returns ErrHostNotEligible so callers can classify with errors.Is.
func (e *HostNotEligibleError) Unwrap() error { return ErrHostNotEligible }

type (
	// Options configures one pipeline run.
	Options struct {
		// Recreate removes an existing venv before building.
		Recreate bool

		// DryRun prints the plan instead of executing it. Nothing is
		// written, not even the registry.
		DryRun bool

		// BypassHostCheck skips the hostname eligibility check. Logged as
		// a warning when set.
		BypassHostCheck bool

		// RegistryPath is the registry file to record the environment in.
		RegistryPath string

		// Runner executes external processes. Defaults to ExecRunner.
		Runner Runner

		// Stdout and Stderr receive subprocess output. Default to the
		// process streams.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result describes a completed (or planned) setup.
	Result struct {
		Entry      registry.Entry
		VenvPath   string
		ScriptPath string
		Effective  *zenvfile.EffectiveConfig
		DryRun     bool
	}

	// Pipeline runs the setup steps for one environment of one project.
	Pipeline struct {
		opts Options
	}
)

// New returns a Pipeline with defaults filled in.
func New(opts Options) *Pipeline {
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Pipeline{opts: opts}
}

// Run executes the pipeline for envName of the parsed zenvfile rooted at
// projectDir.
func (p *Pipeline) Run(ctx context.Context, zf *zenvfile.Zenvfile, envName, projectDir string) (*Result, error) {
	host, eff, err := p.resolve(zf, envName)
	if err != nil {
		return nil, err
	}

	if err := ValidateCommands(eff.Commands); err != nil {
		return nil, err
	}

	venvPath := registry.VenvPathFor(projectDir, eff.BaseDir, eff.Name)

	if p.opts.DryRun {
		p.printPlan(eff, venvPath, projectDir)
		return &Result{VenvPath: venvPath, Effective: eff, DryRun: true}, nil
	}

	if err := loadModules(ctx, p.opts.Runner, projectDir, eff.Modules, p.opts.Stdout, p.opts.Stderr); err != nil {
		return nil, err
	}
	if err := ensureVenv(ctx, p.opts.Runner, projectDir, eff.Python, venvPath, p.opts.Recreate, p.opts.Stdout, p.opts.Stderr); err != nil {
		return nil, err
	}
	if err := installDependencies(ctx, p.opts.Runner, projectDir, venvPath, eff.DedupedDependencies(), eff.Requirements, p.opts.Stdout, p.opts.Stderr); err != nil {
		return nil, err
	}
	if err := runCommands(ctx, projectDir, venvPath, eff.Vars, eff.Commands, p.opts.Stdout, p.opts.Stderr); err != nil {
		return nil, err
	}

	scriptPath, err := WriteActivationScript(eff, venvPath)
	if err != nil {
		return nil, err
	}

	entry, err := p.register(eff, projectDir)
	if err != nil {
		return nil, err
	}

	log.Info("environment ready", "env", eff.Name, "host", host, "venv", venvPath)
	return &Result{Entry: entry, VenvPath: venvPath, ScriptPath: scriptPath, Effective: eff}, nil
}

// resolve merges the environment, applies auto-targeting, and performs
// the hostname eligibility check.
func (p *Pipeline) resolve(zf *zenvfile.Zenvfile, envName string) (string, *zenvfile.EffectiveConfig, error) {
	host, err := hostname.Current()
	if err != nil {
		if !p.opts.BypassHostCheck {
			return "", nil, issue.NewErrorContext().
				WithOperation("determine current hostname").
				WithSuggestion("set ZENV_HOSTNAME to the hostname to match against").
				WithSuggestion("pass --bypass-host-check to skip target matching").
				Wrap(err).
				Build()
		}
		log.Warn("hostname unavailable, continuing because the host check is bypassed")
		host = ""
	}

	eff, err := zf.Merge(envName, hostname.ClusterName(host))
	if err != nil {
		return "", nil, err
	}

	if p.opts.BypassHostCheck {
		log.Warn("host eligibility check bypassed", "env", eff.Name)
	} else if !eff.EligibleOn(host) {
		return "", nil, &HostNotEligibleError{
			Hostname: host,
			EnvName:  eff.Name,
			Targets:  eff.TargetString(),
		}
	}

	return host, eff, nil
}

// register records the environment in the registry and saves it.
func (p *Pipeline) register(eff *zenvfile.EffectiveConfig, projectDir string) (registry.Entry, error) {
	reg, err := registry.Load(p.opts.RegistryPath)
	if err != nil {
		return registry.Entry{}, issue.NewErrorContext().
			WithOperation("load environment registry").
			WithResource(p.opts.RegistryPath).
			Wrap(err).
			Build()
	}

	entry := reg.Register(eff.Name, projectDir, eff.BaseDir, eff.Description, eff.Targets)
	if err := reg.Save(); err != nil {
		return registry.Entry{}, issue.NewErrorContext().
			WithOperation("save environment registry").
			WithResource(p.opts.RegistryPath).
			Wrap(err).
			Build()
	}
	return entry, nil
}

// printPlan writes the dry-run plan: every step the pipeline would run,
// in order, without executing anything.
func (p *Pipeline) printPlan(eff *zenvfile.EffectiveConfig, venvPath, projectDir string) {
	w := p.opts.Stdout

	fmt.Fprintf(w, "Plan for environment %q (dry run, nothing executed):\n", eff.Name)
	for _, mod := range eff.Modules {
		fmt.Fprintf(w, "  load module:    bash -lc \"module load %s\"\n", mod)
	}
	if venvExists(venvPath) && !p.opts.Recreate {
		fmt.Fprintf(w, "  reuse venv:     %s\n", venvPath)
	} else {
		fmt.Fprintf(w, "  create venv:    %s -m venv %s\n", eff.Python, venvPath)
	}
	if deps := eff.DedupedDependencies(); len(deps) > 0 {
		fmt.Fprintf(w, "  install deps:   pip install %s\n", strings.Join(deps, " "))
	}
	if eff.Requirements != "" {
		fmt.Fprintf(w, "  requirements:   pip install -r %s (if present)\n", eff.Requirements)
	}
	for _, cmd := range eff.Commands {
		fmt.Fprintf(w, "  run command:    %s\n", cmd)
	}
	fmt.Fprintf(w, "  write script:   %s\n", filepath.Join(venvPath, ActivateScriptName))
	fmt.Fprintf(w, "  register:       %s in %s\n", eff.Name, projectDir)
}
