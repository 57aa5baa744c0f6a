// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("base_dir: \".zenv\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func TestFindInStartDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "zenvfile.cue"))

	res, err := Find(dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res.ProjectDir != dir {
		t.Errorf("ProjectDir = %q, want %q", res.ProjectDir, dir)
	}
	if res.Path != filepath.Join(dir, "zenvfile.cue") {
		t.Errorf("Path = %q", res.Path)
	}
}

func TestFindWalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "zenvfile.json"))

	nested := filepath.Join(root, "src", "pkg", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	res, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res.ProjectDir != root {
		t.Errorf("ProjectDir = %q, want %q", res.ProjectDir, root)
	}
}

func TestFindPrefersCUEOverJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "zenvfile.cue"))
	writeFile(t, filepath.Join(dir, "zenvfile.json"))

	res, err := Find(dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if filepath.Base(res.Path) != "zenvfile.cue" {
		t.Errorf("Path = %q, want zenvfile.cue preferred", res.Path)
	}
}

func TestFindNearerFileWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "zenvfile.cue"))

	sub := filepath.Join(root, "subproject")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	writeFile(t, filepath.Join(sub, "zenvfile.cue"))

	res, err := Find(sub)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res.ProjectDir != sub {
		t.Errorf("ProjectDir = %q, want nearer %q", res.ProjectDir, sub)
	}
}

func TestFindNotFound(t *testing.T) {
	t.Parallel()

	_, err := Find(t.TempDir())
	if !errors.Is(err, ErrNoZenvfile) {
		t.Fatalf("err = %v, want ErrNoZenvfile", err)
	}
}

func TestInDirIgnoresDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "zenvfile.cue"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	if _, ok := InDir(dir); ok {
		t.Error("InDir matched a directory named zenvfile.cue")
	}
}
