// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zenv-dev/zenv/internal/issue"
	"github.com/zenv-dev/zenv/internal/registry"
)

// deregisterCmd removes an environment's registry record. The venv
// itself and the project files are left untouched.
var deregisterCmd = &cobra.Command{
	Use:   "deregister <name-or-id>",
	Short: "Remove an environment from the registry",
	Long: `Remove an environment from the registry.

Only the registry record is removed; the virtual environment on disk
and the project's zenvfile are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}

		entry, err := reg.Deregister(args[0])
		if err != nil {
			var ambiguous *registry.AmbiguousError
			switch {
			case errors.As(err, &ambiguous):
				renderIssue(issue.AmbiguousIdentifierId)
			case errors.Is(err, registry.ErrNotFound):
				renderIssue(issue.EnvironmentNotFoundId)
			}
			return err
		}

		if err := reg.Save(); err != nil {
			return fmt.Errorf("save registry: %w", err)
		}

		fmt.Printf("%s Deregistered %s (%s)\n",
			SuccessStyle.Render("✓"), NameStyle.Render(entry.Name), entry.ProjectDir)
		fmt.Println(SubtitleStyle.Render("The virtual environment on disk was not removed."))
		return nil
	},
}
