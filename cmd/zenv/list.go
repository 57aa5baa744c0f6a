// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zenv-dev/zenv/internal/hostname"
	"github.com/zenv-dev/zenv/internal/registry"
)

// listCmd shows every registered environment. When the current hostname
// can be determined, eligible environments are marked.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered environments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}

		if reg.Len() == 0 {
			fmt.Println(SubtitleStyle.Render("No environments registered yet. Run 'zenv setup' in a project with a zenvfile."))
			return nil
		}

		// Eligibility is informational here; a missing hostname just
		// drops the marker column.
		host, hostErr := hostname.Current()

		fmt.Println(TitleStyle.Render("Registered environments"))
		fmt.Println()
		for i := range reg.Entries {
			printListEntry(&reg.Entries[i], host, hostErr == nil)
		}
		if hostErr == nil {
			fmt.Println()
			fmt.Println(SubtitleStyle.Render(fmt.Sprintf("* = eligible on this machine (%s)", host)))
		}
		return nil
	},
}

func printListEntry(entry *registry.Entry, host string, haveHost bool) {
	marker := "  "
	if haveHost && entry.EligibleOn(host) {
		marker = SuccessStyle.Render("* ")
	}

	targets := entry.TargetMachines
	if targets == "" {
		targets = "any"
	}

	fmt.Printf("%s%s  %s  %s  %s\n",
		marker,
		NameStyle.Render(fmt.Sprintf("%-16s", entry.Name)),
		VerboseStyle.Render(entry.ID[:registry.MinPrefixLength]),
		fmt.Sprintf("%-24s", targets),
		SubtitleStyle.Render(entry.ProjectDir),
	)
}
