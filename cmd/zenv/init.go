// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zenv-dev/zenv/internal/discovery"
	"github.com/zenv-dev/zenv/pkg/zenvfile"
)

var (
	initForce bool

	// initCmd scaffolds a commented starter zenvfile.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a new zenvfile in the current directory",
		Long: `Create a new zenvfile.cue in the current directory with a commented
starter configuration.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing zenvfile")
}

func runInit(cmd *cobra.Command, args []string) error {
	if existing, ok := discovery.InDir("."); ok && !initForce {
		return fmt.Errorf("%s already exists. Use --force to overwrite", existing)
	}

	if err := os.WriteFile(zenvfile.FileNameCUE, []byte(starterZenvfile), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(zenvfile.FileNameCUE)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Edit the zenvfile to declare your environments")
	fmt.Println("  2. Run 'zenv envs' to check them")
	fmt.Println("  3. Run 'zenv setup <env>' on a matching machine")
	return nil
}

const starterZenvfile = `// zenv project configuration.
//
// The "common" section holds defaults shared by every environment;
// per-environment values override them field-by-field, list values
// are concatenated.

common: {
	// Directory (relative to this project) where venvs are created.
	base_dir: ".zenv"

	// Default requirements file, installed into every environment.
	requirements: "requirements.txt"

	// HPC modules loaded before creating any venv, e.g.:
	// modules: ["Stages/2024", "GCC", "Python"]
}

envs: {
	// A development environment, valid on any machine whose hostname
	// matches one of the targets. Without targets, the environment is
	// auto-targeted at the cluster of the machine you run setup on.
	dev: {
		// targets: ["jureca", "login*"]
		// python: "python3.11"
		// dependencies: ["ipython", "pytest"]
		// vars: {OMP_NUM_THREADS: "8"}
		// commands: ["pip install -e ."]
	}
}
`
