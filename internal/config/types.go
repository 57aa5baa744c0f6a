// SPDX-License-Identifier: MPL-2.0

package config

type (
	// Config is zenv's global (user-scoped) configuration. The project
	// zenvfile covers everything environment-specific; this file only
	// carries machine-wide preferences.
	Config struct {
		// Registry configures the environment registry location.
		Registry RegistryConfig `mapstructure:"registry"`

		// UI configures terminal output.
		UI UIConfig `mapstructure:"ui"`
	}

	// RegistryConfig selects where the environment registry lives.
	RegistryConfig struct {
		// Path overrides the default ~/.zenv/registry.toml when set.
		Path string `mapstructure:"path"`
	}

	// UIConfig holds terminal-output preferences.
	UIConfig struct {
		// ColorScheme is "auto", "dark", or "light".
		ColorScheme string `mapstructure:"color_scheme"`

		// Verbose enables debug output without passing --verbose.
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: "auto",
		},
	}
}
