// SPDX-License-Identifier: MPL-2.0

package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zenv-dev/zenv/pkg/zenvfile"
)

// ActivateScriptName is the script rendered into each venv. Sourcing it
// (or eval-ing `zenv activate <env>`) reproduces the full environment:
// module loads, the venv activation, and the custom vars.
const ActivateScriptName = "activate.sh"

// RenderActivationScript produces the shell script for the merged
// environment. Vars are emitted in sorted key order so the script is
// stable across runs.
func RenderActivationScript(eff *zenvfile.EffectiveConfig, venvPath string) string {
	var b strings.Builder

	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "# Environment %q, generated by zenv. Do not edit.\n\n", eff.Name)

	for _, mod := range eff.Modules {
		fmt.Fprintf(&b, "module load %s\n", mod)
	}
	if len(eff.Modules) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "source %s\n", shellQuote(filepath.Join(venvPath, "bin", "activate")))

	if len(eff.Vars) > 0 {
		b.WriteString("\n")
		keys := make([]string, 0, len(eff.Vars))
		for k := range eff.Vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "export %s=%s\n", k, shellQuote(eff.Vars[k]))
		}
	}

	return b.String()
}

// WriteActivationScript renders and writes the activation script into
// the venv, returning its path.
func WriteActivationScript(eff *zenvfile.EffectiveConfig, venvPath string) (string, error) {
	path := filepath.Join(venvPath, ActivateScriptName)
	script := RenderActivationScript(eff, venvPath)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return "", fmt.Errorf("write activation script: %w", err)
	}
	return path, nil
}

// shellQuote single-quotes a value for safe use in the generated script.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
