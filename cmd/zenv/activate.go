// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zenv-dev/zenv/internal/hostname"
	"github.com/zenv-dev/zenv/internal/issue"
	"github.com/zenv-dev/zenv/internal/log"
	"github.com/zenv-dev/zenv/internal/registry"
	"github.com/zenv-dev/zenv/internal/setup"
)

var (
	activateBypass bool

	activateCmd = &cobra.Command{
		Use:   "activate <name-or-id>",
		Short: "Print shell commands that activate an environment",
		Long: `Print shell commands that activate a registered environment.

The output is meant to be evaluated by the current shell:

  eval "$(zenv activate dev)"

It loads the environment's HPC modules, sources the venv activation,
and exports the declared variables.`,
		Args: cobra.ExactArgs(1),
		RunE: runActivate,
	}
)

func init() {
	activateCmd.Flags().BoolVar(&activateBypass, "bypass-host-check", false, "skip the target-machine eligibility check")
}

func runActivate(cmd *cobra.Command, args []string) error {
	_, entry, err := resolveEntry(args[0])
	if err != nil {
		return err
	}

	if err := checkEntryEligibility(entry, activateBypass); err != nil {
		return err
	}

	script := filepath.Join(entry.VenvPath, setup.ActivateScriptName)
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("environment %q has no activation script (re-run 'zenv setup %s' in %s): %w",
			entry.Name, entry.Name, entry.ProjectDir, err)
	}

	// The only line written to stdout; everything else must go to stderr
	// so eval "$(zenv activate ...)" stays clean.
	fmt.Printf("source %q\n", script)
	return nil
}

// checkEntryEligibility enforces target matching for a registry entry.
// Bypassing is allowed but always logged as a warning.
func checkEntryEligibility(entry *registry.Entry, bypass bool) error {
	if bypass {
		log.Warn("host eligibility check bypassed", "env", entry.Name)
		return nil
	}

	host, err := hostname.Current()
	if err != nil {
		renderIssue(issue.MissingHostnameId)
		return err
	}

	if !entry.EligibleOn(host) {
		renderIssue(issue.HostNotEligibleId)
		return fmt.Errorf("host %q does not match the targets of environment %q (%s)",
			host, entry.Name, entry.TargetMachines)
	}
	return nil
}
