// SPDX-License-Identifier: MPL-2.0

package zenvfile

import (
	"fmt"
	"strings"
)

// Validate enforces the constraints the CUE schema cannot express:
// the base directory and default requirements name must be resolvable,
// and every declared target pattern must be well-formed.
func (z *Zenvfile) Validate() error {
	if z.EffectiveBaseDir() == "" {
		return fmt.Errorf("common.base_dir is required (or a top-level base_dir override)")
	}
	if z.Common.Requirements == "" {
		return fmt.Errorf("common.requirements is required")
	}

	for _, name := range z.EnvNames() {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("environment names must not be empty or whitespace")
		}
		env := z.Envs[name]
		for i, p := range env.Targets {
			if err := p.Validate(); err != nil {
				return fmt.Errorf("envs.%s.targets[%d]: %w", name, i, err)
			}
		}
	}

	return nil
}
