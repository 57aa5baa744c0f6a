// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

// TestWatcherDebounce verifies that multiple rapid filesystem events are
// coalesced into a single callback invocation containing all changed paths.
func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)

	done := make(chan struct{})

	w, err := New(Config{
		BaseDir:  dir,
		Debounce: 100 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			close(done)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Write three files in rapid succession, well within the debounce window.
	for _, name := range []string{"zenvfile.cue", "requirements.txt", "extra.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	// Allow a brief settle for any additional spurious callbacks.
	time.Sleep(200 * time.Millisecond)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}

	slices.Sort(collected)
	for _, want := range []string{"extra.txt", "requirements.txt", "zenvfile.cue"} {
		if !slices.Contains(collected, want) {
			t.Errorf("expected %q in changed files, got %v", want, collected)
		}
	}
}

// TestWatcherPatternFilter confirms that only files matching the
// configured patterns trigger the callback.
func TestWatcherPatternFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 10)

	w, err := New(Config{
		BaseDir:  dir,
		Patterns: []string{"zenvfile.cue", "requirements*.txt"},
		Debounce: 100 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// An unrelated file must not trigger.
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case changed := <-fired:
		t.Fatalf("unrelated file triggered callback: %v", changed)
	case <-time.After(400 * time.Millisecond):
	}

	// A matching file must trigger.
	if err := os.WriteFile(filepath.Join(dir, "zenvfile.cue"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case changed := <-fired:
		if !slices.Contains(changed, "zenvfile.cue") {
			t.Errorf("changed = %v, want zenvfile.cue", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("matching file did not trigger callback")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// TestWatcherIgnoresEditorTempFiles confirms the built-in ignores drop
// swap and backup files even when no patterns are configured.
func TestWatcherIgnoresEditorTempFiles(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"zenvfile.cue.swp", "zenvfile.cue~", ".DS_Store"} {
		if (&Watcher{}).matches(name) {
			t.Errorf("%q should be ignored", name)
		}
	}
	if !(&Watcher{}).matches("zenvfile.cue") {
		t.Error("zenvfile.cue should match with no patterns configured")
	}
}

func TestWatcherRunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{
		BaseDir: t.TempDir(),
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the first Run a moment to claim the started flag.
	time.Sleep(50 * time.Millisecond)

	if err := w.Run(ctx); err == nil {
		t.Error("second Run() should fail")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestNewRejectsInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New(Config{BaseDir: t.TempDir(), Patterns: []string{"[unclosed"}})
	if err == nil {
		t.Fatal("New() accepted an invalid glob")
	}
}
