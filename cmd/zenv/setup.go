// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zenv-dev/zenv/internal/hostname"
	"github.com/zenv-dev/zenv/internal/issue"
	"github.com/zenv-dev/zenv/internal/setup"
	"github.com/zenv-dev/zenv/internal/watch"
	"github.com/zenv-dev/zenv/pkg/zenvfile"
)

var (
	setupRecreate bool
	setupDryRun   bool
	setupWatch    bool
	setupBypass   bool

	setupCmd = &cobra.Command{
		Use:   "setup [environment]",
		Short: "Build, configure, and register an environment",
		Long: `Build, configure, and register an environment from the project's zenvfile.

The pipeline loads the declared HPC modules, creates the virtual
environment, installs dependencies, runs custom setup commands, writes
the activation script, and records the environment in the registry.
The first failing step aborts the whole setup.

The environment argument may be omitted when the zenvfile defines
exactly one environment.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSetup,
	}
)

func init() {
	setupCmd.Flags().BoolVar(&setupRecreate, "recreate", false, "remove and rebuild an existing virtual environment")
	setupCmd.Flags().BoolVar(&setupDryRun, "dry-run", false, "print the setup plan without executing it")
	setupCmd.Flags().BoolVarP(&setupWatch, "watch", "w", false, "re-run setup when the zenvfile or requirements change")
	setupCmd.Flags().BoolVar(&setupBypass, "bypass-host-check", false, "skip the target-machine eligibility check")
}

func runSetup(cmd *cobra.Command, args []string) error {
	res, zf, err := loadProject()
	if err != nil {
		return err
	}

	envName, err := chooseEnv(zf, args)
	if err != nil {
		return err
	}

	regPath, err := registryPath()
	if err != nil {
		return err
	}

	pipeline := setup.New(setup.Options{
		Recreate:        setupRecreate,
		DryRun:          setupDryRun,
		BypassHostCheck: setupBypass,
		RegistryPath:    regPath,
	})

	runOnce := func(ctx context.Context) error {
		result, runErr := pipeline.Run(ctx, zf, envName, res.ProjectDir)
		if runErr != nil {
			return classifySetupError(runErr)
		}
		if !result.DryRun {
			fmt.Printf("%s Environment %s is ready\n", SuccessStyle.Render("✓"), NameStyle.Render(envName))
			fmt.Printf("  activate with: %s\n", NameStyle.Render(fmt.Sprintf(`eval "$(zenv activate %s)"`, envName)))
		}
		return nil
	}

	if !setupWatch {
		return runOnce(cmd.Context())
	}

	// Watch mode: run once up front, then re-run on project file changes.
	if err := runOnce(cmd.Context()); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Setup failed: ")+formatErrorForDisplay(err, verbose))
	}

	patterns := []string{zenvfile.FileNameCUE, zenvfile.FileNameJSON}
	if req := requirementsPattern(zf, envName); req != "" {
		patterns = append(patterns, req)
	}

	watcher, err := watch.New(watch.Config{
		Patterns:    patterns,
		BaseDir:     res.ProjectDir,
		ClearScreen: true,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Printf("%s %s changed, re-running setup\n", SubtitleStyle.Render("watch:"), strings.Join(changed, ", "))
			fresh, parseErr := zenvfile.Parse(res.Path)
			if parseErr != nil {
				fmt.Fprintln(os.Stderr, ErrorStyle.Render("Parse failed: ")+formatErrorForDisplay(parseErr, verbose))
				return nil
			}
			zf = fresh
			if runErr := runOnce(ctx); runErr != nil {
				fmt.Fprintln(os.Stderr, ErrorStyle.Render("Setup failed: ")+formatErrorForDisplay(runErr, verbose))
			}
			return nil
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s watching %s (ctrl-c to stop)\n", SubtitleStyle.Render("watch:"), res.ProjectDir)
	return watcher.Run(cmd.Context())
}

// chooseEnv picks the environment to set up: the explicit argument, or
// the only defined environment when the zenvfile has exactly one.
func chooseEnv(zf *zenvfile.Zenvfile, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	names := zf.EnvNames()
	if len(names) == 1 {
		return names[0], nil
	}
	return "", fmt.Errorf("zenvfile defines %d environments, pick one of: %s", len(names), strings.Join(names, ", "))
}

// requirementsPattern returns the requirements file name the merged
// environment would install from, for watch filtering.
func requirementsPattern(zf *zenvfile.Zenvfile, envName string) string {
	eff, err := zf.Merge(envName, "")
	if err != nil {
		return ""
	}
	return eff.Requirements
}

// classifySetupError renders help cards for well-known failures and
// converts process failures into exit codes.
func classifySetupError(err error) error {
	var procErr *setup.ProcessError
	switch {
	case errors.As(err, &procErr):
		if strings.Contains(procErr.Step, "module") {
			renderIssue(issue.ModuleLoadFailedId)
		}
		return &ExitError{Code: procErr.ExitCode(), Err: err}
	case errors.Is(err, setup.ErrHostNotEligible):
		renderIssue(issue.HostNotEligibleId)
	case errors.Is(err, hostname.ErrMissingHostname):
		renderIssue(issue.MissingHostnameId)
	case errors.Is(err, zenvfile.ErrEnvNotFound):
		renderIssue(issue.EnvironmentNotFoundId)
	}
	return err
}
