// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/zenv-dev/zenv/pkg/hostmatch"
)

// PathEnvOverride points the registry at a different file, mainly for
// tests and throwaway sandboxes.
const PathEnvOverride = "ZENV_REGISTRY"

// defaultRelPath is the registry location relative to the user's home.
const defaultRelPath = ".zenv/registry.toml"

type (
	// Registry is the full in-memory collection of entries plus the file
	// it was loaded from. It is owned by one process for the duration of
	// one command: load once, mutate, save, exit. No cross-process
	// locking is provided; concurrent writers are last-writer-wins.
	Registry struct {
		Entries []Entry

		path string
	}

	// registryFile is the on-disk TOML shape: an array of
	// [[environment]] tables.
	registryFile struct {
		Environments []Entry `toml:"environment"`
	}
)

// DefaultPath returns the registry file location: the ZENV_REGISTRY
// override when set, otherwise ~/.zenv/registry.toml.
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnvOverride); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate registry: %w", err)
	}
	return filepath.Join(home, defaultRelPath), nil
}

// Load reads the registry file at path. A missing file yields an empty
// registry; a malformed file is a hard error since every command needs
// the registry intact.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Registry{path: path}, nil
		}
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}

	return &Registry{Entries: file.Environments, path: path}, nil
}

// Path returns the file the registry was loaded from.
func (r *Registry) Path() string { return r.path }

// Len returns the number of registered environments.
func (r *Registry) Len() int { return len(r.Entries) }

// Save serializes the full entry list back to the registry file,
// rewriting it wholesale. The write goes through a temp file and an
// atomic rename so a crash mid-save leaves the prior on-disk state
// intact.
func (r *Registry) Save() error {
	data, err := toml.Marshal(registryFile{Environments: r.Entries})
	if err != nil {
		return fmt.Errorf("serialize registry: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create registry directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".registry-*.toml")
	if err != nil {
		return fmt.Errorf("create registry temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write registry: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close registry temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace registry %s: %w", r.path, err)
	}
	return nil
}

// Register records an environment. The ID is the primary key:
// re-registering an existing (name, project dir) pair updates that entry
// in place and keeps its ID, so repeated setups of the same logical
// environment never accumulate duplicates. Anything else appends a fresh
// entry with a fresh ID. The caller is responsible for Save.
func (r *Registry) Register(name, projectDir, baseDir, description string, targets []hostmatch.Pattern) Entry {
	entry := Entry{
		Name:           name,
		ProjectDir:     projectDir,
		VenvPath:       VenvPathFor(projectDir, baseDir, name),
		TargetMachines: hostmatch.JoinList(targets),
		Description:    description,
	}

	for i := range r.Entries {
		if r.Entries[i].Name == name && r.Entries[i].ProjectDir == projectDir {
			entry.ID = r.Entries[i].ID
			r.Entries[i] = entry
			return entry
		}
	}

	entry.ID = NewID(projectDir, name)
	r.Entries = append(r.Entries, entry)
	return entry
}

// Lookup finds an entry by exact name or exact full ID. Prefix matching
// is Resolve's job, layered on top.
func (r *Registry) Lookup(identifier string) *Entry {
	for i := range r.Entries {
		if r.Entries[i].Name == identifier {
			return &r.Entries[i]
		}
	}
	for i := range r.Entries {
		if r.Entries[i].ID == identifier {
			return &r.Entries[i]
		}
	}
	return nil
}

// Deregister removes the entry matched by the resolver. It only touches
// the registry record, never the environment on disk, and does not save:
// callers decide whether a write happens, so a failed resolution never
// rewrites the file.
func (r *Registry) Deregister(identifier string) (Entry, error) {
	entry, err := r.Resolve(identifier)
	if err != nil {
		return Entry{}, err
	}

	removed := *entry
	for i := range r.Entries {
		if r.Entries[i].ID == removed.ID {
			r.Entries = append(r.Entries[:i], r.Entries[i+1:]...)
			break
		}
	}
	return removed, nil
}
