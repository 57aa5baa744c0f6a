// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zenv-dev/zenv/internal/hostname"
)

// infoCmd shows the full registry record of one environment.
var infoCmd = &cobra.Command{
	Use:   "info <name-or-id>",
	Short: "Show details of a registered environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, entry, err := resolveEntry(args[0])
		if err != nil {
			return err
		}

		fmt.Println(TitleStyle.Render("Environment ") + NameStyle.Render(entry.Name))
		fmt.Println()
		printField("ID", entry.ID)
		printField("Project", entry.ProjectDir)
		printField("Venv", entry.VenvPath)
		if entry.TargetMachines != "" {
			printField("Targets", entry.TargetMachines)
		} else {
			printField("Targets", SubtitleStyle.Render("(any machine)"))
		}
		if entry.Description != "" {
			printField("Description", entry.Description)
		}

		if host, hostErr := hostname.Current(); hostErr == nil {
			if entry.EligibleOn(host) {
				printField("This machine", SuccessStyle.Render("eligible")+SubtitleStyle.Render(" ("+host+")"))
			} else {
				printField("This machine", WarningStyle.Render("not eligible")+SubtitleStyle.Render(" ("+host+")"))
			}
		}
		return nil
	},
}

func printField(label, value string) {
	fmt.Printf("%s %s\n", NameStyle.Render(fmt.Sprintf("%-14s", label+":")), value)
}
