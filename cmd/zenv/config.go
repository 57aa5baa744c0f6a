// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zenv-dev/zenv/internal/config"
	"github.com/zenv-dev/zenv/internal/issue"
	"github.com/zenv-dev/zenv/internal/registry"
)

// newConfigCommand creates the `zenv config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage zenv configuration",
		Long: `Manage zenv configuration.

Configuration is stored in:
  - Linux: ~/.config/zenv/config.cue
  - macOS: ~/Library/Application Support/zenv/config.cue
  - Windows: %APPDATA%\zenv\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CreateDefaultConfig(); err != nil {
				return err
			}
			path, _ := config.FilePath()
			fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Print(config.GenerateCUE(loaded))
			return nil
		},
	})

	return cfgCmd
}

func showConfig() error {
	loaded, err := config.Load()
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	path, pathErr := config.FilePath()
	switch {
	case pathErr == nil && fileExistsCheck(path):
		fmt.Printf("%s: %s\n", NameStyle.Render("Config file"), path)
	default:
		fmt.Printf("%s: %s\n", NameStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	regPath := loaded.Registry.Path
	if regPath == "" {
		if def, defErr := registry.DefaultPath(); defErr == nil {
			regPath = def + SubtitleStyle.Render(" (default)")
		}
	}
	fmt.Printf("%s: %s\n", NameStyle.Render("registry.path"), SuccessStyle.Render(regPath))
	fmt.Printf("%s: %s\n", NameStyle.Render("ui.color_scheme"), SuccessStyle.Render(loaded.UI.ColorScheme))
	fmt.Printf("%s: %s\n", NameStyle.Render("ui.verbose"), SuccessStyle.Render(fmt.Sprintf("%t", loaded.UI.Verbose)))
	return nil
}

func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
