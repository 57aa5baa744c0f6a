// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for zenv.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/zenv-dev/zenv/internal/config"
	"github.com/zenv-dev/zenv/internal/issue"
	"github.com/zenv-dev/zenv/internal/log"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string

	// cfg is the loaded global configuration, filled by initRootConfig.
	cfg *config.Config

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "zenv",
		Short: "Declarative Python environments for HPC clusters",
		Long: TitleStyle.Render("zenv") + SubtitleStyle.Render(" - declarative Python environments for HPC clusters") + `

zenv manages per-project Python virtual environments from a single
declarative zenvfile: which modules to load, which python to use,
which dependencies to install, and which machines the environment
is valid on. Set-up environments are recorded in a global registry
so they can be activated from anywhere by name or ID.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'zenv init' in your project directory
  2. Edit the generated zenvfile.cue
  3. Run 'zenv setup <env>' on a matching machine

` + SubtitleStyle.Render("Examples:") + `
  zenv setup dev              Build and register the 'dev' environment
  eval "$(zenv activate dev)" Activate it in the current shell
  cd "$(zenv path dev)"       Jump to its project directory
  zenv list                   Show all registered environments`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/zenv/config.cue)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(envsCmd)
	rootCmd.AddCommand(deregisterCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig loads the global configuration and applies it to the
// flag-driven settings.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	loaded, err := config.Load()
	if err != nil {
		// Config problems must never block read-only commands; warn and
		// continue on defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if loaded == nil {
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	if !verbose {
		verbose = cfg.UI.Verbose
	}
	log.SetVerbose(verbose)
}

// formatErrorForDisplay formats an error for user display. ActionableError
// values render their suggestions; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
