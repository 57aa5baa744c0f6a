// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/zenv-dev/zenv/internal/discovery"
	"github.com/zenv-dev/zenv/internal/issue"
	"github.com/zenv-dev/zenv/internal/registry"
	"github.com/zenv-dev/zenv/pkg/zenvfile"
)

// glamourStyle maps the configured color scheme to a glamour style name.
func glamourStyle() string {
	if cfg == nil || cfg.UI.ColorScheme == "" || cfg.UI.ColorScheme == "auto" {
		return "dark"
	}
	return cfg.UI.ColorScheme
}

// renderIssue prints a catalog help card to stderr. Rendering failures
// fall back to the raw markdown so the guidance is never lost.
func renderIssue(id issue.Id) {
	card := issue.Get(id)
	if card == nil {
		return
	}
	rendered, err := card.Render(glamourStyle())
	if err != nil {
		rendered = string(card.MarkdownMsg())
	}
	fmt.Fprint(os.Stderr, rendered)
}

// registryPath resolves the registry file location: the global config
// override when set, otherwise the default (itself overridable through
// ZENV_REGISTRY).
func registryPath() (string, error) {
	def, err := registry.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("resolve registry path: %w", err)
	}
	return cfg.RegistryPath(def), nil
}

// openRegistry loads the registry, rendering the help card on failure.
func openRegistry() (*registry.Registry, error) {
	path, err := registryPath()
	if err != nil {
		return nil, err
	}
	reg, err := registry.Load(path)
	if err != nil {
		renderIssue(issue.RegistryLoadFailedId)
		return nil, err
	}
	return reg, nil
}

// resolveEntry resolves an identifier against the registry, rendering
// the matching help card when resolution fails.
func resolveEntry(identifier string) (*registry.Registry, *registry.Entry, error) {
	reg, err := openRegistry()
	if err != nil {
		return nil, nil, err
	}

	entry, err := reg.Resolve(identifier)
	if err != nil {
		var ambiguous *registry.AmbiguousError
		switch {
		case errors.As(err, &ambiguous):
			renderIssue(issue.AmbiguousIdentifierId)
			fmt.Fprintf(os.Stderr, "%s %q matches: %v\n", WarningStyle.Render("Ambiguous:"), identifier, ambiguous.Names)
		case errors.Is(err, registry.ErrNotFound):
			renderIssue(issue.EnvironmentNotFoundId)
		}
		return nil, nil, err
	}
	return reg, entry, nil
}

// loadProject discovers and parses the current project's zenvfile,
// rendering help cards for the not-found and parse-failure cases.
func loadProject() (*discovery.Result, *zenvfile.Zenvfile, error) {
	res, err := discovery.FindFromWorkingDir()
	if err != nil {
		if errors.Is(err, discovery.ErrNoZenvfile) {
			renderIssue(issue.ZenvfileNotFoundId)
		}
		return nil, nil, err
	}

	zf, err := zenvfile.Parse(res.Path)
	if err != nil {
		renderIssue(issue.ZenvfileParseErrorId)
		return nil, nil, err
	}
	return res, zf, nil
}
