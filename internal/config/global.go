// SPDX-License-Identifier: MPL-2.0

package config

// Overrides set by the CLI (--config) and by tests. os.UserHomeDir does
// not reliably respect the HOME environment variable on all platforms,
// so tests override the directory directly.
var (
	configDirOverride      string
	configFilePathOverride string
)

// SetConfigFilePathOverride forces loading from a specific config file.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// SetConfigDirOverride sets a custom config directory path.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears all overrides. Call from test cleanup.
func Reset() {
	configDirOverride = ""
	configFilePathOverride = ""
}
