// SPDX-License-Identifier: MPL-2.0

// Package config loads zenv's global configuration: viper supplies the
// defaults, and an optional CUE file (validated against the embedded
// #Config schema) is merged on top.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/zenv-dev/zenv/internal/issue"
	"github.com/zenv-dev/zenv/pkg/cueutil"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "zenv"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the zenv configuration directory using
// platform-specific conventions: %APPDATA% on Windows,
// ~/Library/Application Support on macOS, and $XDG_CONFIG_HOME
// (defaulting to ~/.config) elsewhere.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the resolved config file path (honoring the --config
// override), whether or not the file exists.
func FilePath() (string, error) {
	if configFilePathOverride != "" {
		return configFilePathOverride, nil
	}
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads the global configuration: defaults first, then the config
// file when one exists. A missing file is not an error; an invalid one
// is.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("registry.path", defaults.Registry.Path)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	cfgPath, err := FilePath()
	if err != nil {
		return nil, err
	}

	if fileExists(cfgPath) {
		if err := loadCUEIntoViper(v, cfgPath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Run 'zenv config init' to recreate a default configuration").
				Wrap(err).
				BuildError()
		}
	} else if configFilePathOverride != "" {
		// An explicitly requested file must exist.
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(cfgPath).
			WithSuggestion("Verify the file path is correct").
			Wrap(fmt.Errorf("config file not found: %s", cfgPath)).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into viper. Manual CUE handling rather
// than cueutil.ParseAndDecode because the result must land in viper's
// config map (preserving defaults), not a struct, and config fields are
// optional so concreteness is not required.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// RegistryPath resolves the registry file location: the config override
// wins when set, otherwise the registry package's default applies.
func (c *Config) RegistryPath(defaultPath string) string {
	if c != nil && c.Registry.Path != "" {
		return c.Registry.Path
	}
	return defaultPath
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file unless one already
// exists.
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return nil
	}

	content := GenerateCUE(DefaultConfig())
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE renders a configuration as a commented CUE document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// zenv configuration file\n\n")

	sb.WriteString("registry: {\n")
	if cfg.Registry.Path != "" {
		sb.WriteString(fmt.Sprintf("\tpath: %q\n", cfg.Registry.Path))
	} else {
		sb.WriteString("\t// path: \"/custom/location/registry.toml\"\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("ui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}
