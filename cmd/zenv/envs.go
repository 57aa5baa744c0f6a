// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zenv-dev/zenv/internal/hostname"
)

// envsCmd shows the environments defined by the current project's
// zenvfile, with per-environment eligibility for this machine.
var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "List the environments defined by the project's zenvfile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, zf, err := loadProject()
		if err != nil {
			return err
		}

		host, hostErr := hostname.Current()
		cluster := ""
		if hostErr == nil {
			cluster = hostname.ClusterName(host)
		}

		fmt.Println(TitleStyle.Render("Environments in ") + NameStyle.Render(res.Path))
		fmt.Println()

		for _, name := range zf.EnvNames() {
			eff, mergeErr := zf.Merge(name, cluster)
			if mergeErr != nil {
				return mergeErr
			}

			status := ""
			if hostErr == nil {
				if eff.EligibleOn(host) {
					status = SuccessStyle.Render("eligible")
				} else {
					status = WarningStyle.Render("not eligible")
				}
			}

			targets := eff.TargetString()
			if targets == "" {
				targets = "any"
			} else if eff.AutoTargeted {
				targets += SubtitleStyle.Render(" (auto)")
			}

			fmt.Printf("  %s  targets: %s  %s\n", NameStyle.Render(fmt.Sprintf("%-16s", name)), targets, status)
			if eff.Description != "" {
				fmt.Printf("  %s  %s\n", fmt.Sprintf("%-16s", ""), SubtitleStyle.Render(eff.Description))
			}
		}
		return nil
	},
}
