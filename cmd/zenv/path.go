// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathCmd prints a registered environment's project directory, for use
// in command substitution: cd "$(zenv path dev)".
var pathCmd = &cobra.Command{
	Use:   "path <name-or-id>",
	Short: "Print the project directory of an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, entry, err := resolveEntry(args[0])
		if err != nil {
			return err
		}
		fmt.Println(entry.ProjectDir)
		return nil
	},
}
