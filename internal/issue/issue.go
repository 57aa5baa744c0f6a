// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies one catalog entry.
type Id int

const (
	ZenvfileNotFoundId Id = iota + 1
	ZenvfileParseErrorId
	EnvironmentNotFoundId
	HostNotEligibleId
	AmbiguousIdentifierId
	MissingHostnameId
	RegistryLoadFailedId
	ModuleLoadFailedId
	ConfigLoadFailedId
)

// MarkdownMsg is the renderable markdown body of an issue.
type MarkdownMsg string

// Issue is one help card: a markdown explanation of a recurring failure
// situation and what to do about it.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

// Id returns the issue's catalog identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the card with glamour for terminal display.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	zenvfileNotFoundIssue = &Issue{
		id: ZenvfileNotFoundId,
		mdMsg: `
# No zenvfile found!

We walked from the current directory up to the filesystem root but
found no zenvfile.

## Things you can try:
- Create one in your project directory:
~~~
$ zenv init
~~~

- Or move into a project that has one:
~~~
$ cd /path/to/your/project
$ zenv envs
~~~

## Example zenvfile.cue:
~~~cue
common: {
    base_dir:     ".zenv-envs"
    requirements: "requirements.txt"
}

envs: {
    dev: {
        targets:      ["jureca"]
        dependencies: ["numpy"]
    }
}
~~~`,
	}

	zenvfileParseErrorIssue = &Issue{
		id: ZenvfileParseErrorId,
		mdMsg: `
# Failed to parse the zenvfile!

The zenvfile contains syntax errors or schema violations.

## Common issues:
- Invalid CUE/JSON syntax (missing quotes, braces)
- Unknown field names
- Wrong value types (e.g. a number where a string is expected)
- Missing required common fields (base_dir, requirements)

## Things you can try:
- Check the error message above for the exact field path
- Run with verbose mode for more details:
~~~
$ zenv --verbose envs
~~~`,
	}

	environmentNotFoundIssue = &Issue{
		id: EnvironmentNotFoundId,
		mdMsg: `
# Environment not found!

The name or ID you gave matches no registered environment.

## Things you can try:
- List all registered environments:
~~~
$ zenv list
~~~

- Check for typos in the environment name
- When using an ID prefix, copy it from the list output`,
	}

	hostNotEligibleIssue = &Issue{
		id: HostNotEligibleId,
		mdMsg: `
# This machine does not match the environment's targets!

The environment's target patterns exclude the current hostname.
Environments are usually pinned to the cluster whose modules and
file systems they need.

## Things you can try:
- Run the command on a matching machine (check targets with 'zenv envs')
- Adjust the environment's targets in the zenvfile
- If you know what you are doing, bypass the check explicitly:
~~~
$ zenv setup dev --bypass-host-check
~~~`,
	}

	ambiguousIdentifierIssue = &Issue{
		id: AmbiguousIdentifierId,
		mdMsg: `
# Ambiguous identifier!

The ID prefix you gave matches more than one registered environment.

## Things you can try:
- Use more characters of the ID
- Use the environment name instead
- See the full IDs with:
~~~
$ zenv list
~~~`,
	}

	missingHostnameIssue = &Issue{
		id: MissingHostnameId,
		mdMsg: `
# Unable to determine hostname!

zenv needs the machine's hostname to check environment targets, but
every source came up empty (ZENV_HOSTNAME, HOSTNAME, the OS, and the
hostname command).

## Things you can try:
- Set the override explicitly:
~~~
$ export ZENV_HOSTNAME=$(uname -n)
~~~

- Or bypass host checking for this command with --bypass-host-check`,
	}

	registryLoadFailedIssue = &Issue{
		id: RegistryLoadFailedId,
		mdMsg: `
# Failed to load the environment registry!

The registry file exists but could not be parsed. zenv never rewrites
a registry it cannot read, so your data is still on disk.

## Registry location:
- ~/.zenv/registry.toml (or $ZENV_REGISTRY when set)

## Things you can try:
- Inspect the file for conflict markers or truncation
- Restore it from a backup
- Move it aside to start fresh (registered environments will be
  forgotten, the virtual environments themselves stay on disk)`,
	}

	moduleLoadFailedIssue = &Issue{
		id: ModuleLoadFailedId,
		mdMsg: `
# HPC module load failed!

One of the environment's modules could not be loaded. Setup stops at
the first failing module; nothing was installed.

## Things you can try:
- Check the module name and version:
~~~
$ module avail <name>
~~~

- Load the site's stage/toolchain module first if your site requires it
- Verify you are on the machine the environment targets`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The global zenv configuration file could not be loaded.

## Configuration file location:
- Linux: ~/.config/zenv/config.cue
- macOS: ~/Library/Application Support/zenv/config.cue

## Things you can try:
- Create a fresh default configuration:
~~~
$ zenv config init
~~~

- Check the file's CUE syntax
- Remove the file to fall back to defaults`,
	}

	issues = map[Id]*Issue{
		zenvfileNotFoundIssue.Id():    zenvfileNotFoundIssue,
		zenvfileParseErrorIssue.Id():  zenvfileParseErrorIssue,
		environmentNotFoundIssue.Id(): environmentNotFoundIssue,
		hostNotEligibleIssue.Id():     hostNotEligibleIssue,
		ambiguousIdentifierIssue.Id(): ambiguousIdentifierIssue,
		missingHostnameIssue.Id():     missingHostnameIssue,
		registryLoadFailedIssue.Id():  registryLoadFailedIssue,
		moduleLoadFailedIssue.Id():    moduleLoadFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
	}
)

// Values returns all catalog entries in Id order.
func Values() []*Issue {
	all := maps.Values(issues)
	slices.SortFunc(all, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return all
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
