// SPDX-License-Identifier: MPL-2.0

package setup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zenv-dev/zenv/internal/registry"
	"github.com/zenv-dev/zenv/pkg/zenvfile"
)

const sampleZenvfile = `
common: {
	base_dir:     ".zenv"
	requirements: "requirements.txt"
	modules: ["Stages/2024"]
}

envs: {
	dev: {
		targets: "cluster"
		dependencies: ["numpy", "scipy", "numpy"]
		commands: ["echo configured"]
		vars: {PROJECT_MODE: "dev"}
	}
	gpu: {
		targets: ["booster", "gpu*"]
		modules: ["CUDA"]
	}
}
`

// fakeRunner records every external invocation and can be told to fail
// a command containing a given substring. Venv creation is simulated by
// writing the interpreter file the pipeline checks for.
type fakeRunner struct {
	calls       []string
	failOn      string
	fakedVenvOK bool
}

func (f *fakeRunner) Run(_ context.Context, _ string, _, _ io.Writer, name string, args ...string) error {
	cmdline := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, cmdline)

	if f.failOn != "" && strings.Contains(cmdline, f.failOn) {
		return fmt.Errorf("exit status 1")
	}

	if f.fakedVenvOK && len(args) >= 2 && args[0] == "-m" && args[1] == "venv" {
		binDir := filepath.Join(args[2], "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(binDir, "python"), []byte("#!/bin/sh\n"), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(binDir, "activate"), nil, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func parseSample(t *testing.T) *zenvfile.Zenvfile {
	t.Helper()
	zf, err := zenvfile.ParseBytes([]byte(sampleZenvfile), "zenvfile.cue")
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	return zf
}

func testPipeline(t *testing.T, runner *fakeRunner, opts Options) (*Pipeline, string) {
	t.Helper()
	t.Setenv("ZENV_HOSTNAME", "jrlogin08.cluster")

	opts.Runner = runner
	if opts.RegistryPath == "" {
		opts.RegistryPath = filepath.Join(t.TempDir(), "registry.toml")
	}
	var out bytes.Buffer
	if opts.Stdout == nil {
		opts.Stdout = &out
	}
	if opts.Stderr == nil {
		opts.Stderr = &out
	}
	return New(opts), opts.RegistryPath
}

func TestRunFullPipeline(t *testing.T) {
	runner := &fakeRunner{fakedVenvOK: true}
	pipe, regPath := testPipeline(t, runner, Options{})

	projectDir := t.TempDir()
	res, err := pipe.Run(context.Background(), parseSample(t), "dev", projectDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantVenv := filepath.Join(projectDir, ".zenv", "dev")
	if res.VenvPath != wantVenv {
		t.Errorf("VenvPath = %q, want %q", res.VenvPath, wantVenv)
	}

	wantCalls := []string{
		`bash -lc module load Stages/2024`,
		fmt.Sprintf("python3 -m venv %s", wantVenv),
		fmt.Sprintf("%s -m pip install numpy scipy", filepath.Join(wantVenv, "bin", "python")),
	}
	if len(runner.calls) != len(wantCalls) {
		t.Fatalf("calls = %q, want %d calls", runner.calls, len(wantCalls))
	}
	for i, want := range wantCalls {
		if runner.calls[i] != want {
			t.Errorf("call[%d] = %q, want %q", i, runner.calls[i], want)
		}
	}

	script, err := os.ReadFile(res.ScriptPath)
	if err != nil {
		t.Fatalf("read activation script: %v", err)
	}
	for _, want := range []string{"module load Stages/2024", "bin/activate", "export PROJECT_MODE='dev'"} {
		if !strings.Contains(string(script), want) {
			t.Errorf("activation script missing %q:\n%s", want, script)
		}
	}

	reg, err := registry.Load(regPath)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("registry has %d entries, want 1", reg.Len())
	}
	entry := reg.Entries[0]
	if entry.Name != "dev" || entry.ProjectDir != projectDir {
		t.Errorf("registered entry = %+v", entry)
	}
	if entry.ID != res.Entry.ID {
		t.Errorf("result entry ID %q != registered %q", res.Entry.ID, entry.ID)
	}
}

func TestRunSkipsExistingVenv(t *testing.T) {
	runner := &fakeRunner{fakedVenvOK: true}
	pipe, _ := testPipeline(t, runner, Options{})

	projectDir := t.TempDir()
	venvPython := filepath.Join(projectDir, ".zenv", "dev", "bin", "python")
	if err := os.MkdirAll(filepath.Dir(venvPython), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(venvPython, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := pipe.Run(context.Background(), parseSample(t), "dev", projectDir); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, call := range runner.calls {
		if strings.Contains(call, "-m venv") {
			t.Errorf("venv was recreated without --recreate: %q", call)
		}
	}
}

func TestRunRecreateRebuildsVenv(t *testing.T) {
	runner := &fakeRunner{fakedVenvOK: true}
	pipe, _ := testPipeline(t, runner, Options{Recreate: true})

	projectDir := t.TempDir()
	venvDir := filepath.Join(projectDir, ".zenv", "dev")
	marker := filepath.Join(venvDir, "stale-marker")
	if err := os.MkdirAll(filepath.Join(venvDir, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(venvDir, "bin", "python"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := pipe.Run(context.Background(), parseSample(t), "dev", projectDir); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(marker); !errors.Is(err, os.ErrNotExist) {
		t.Error("stale venv content survived --recreate")
	}

	var created bool
	for _, call := range runner.calls {
		if strings.Contains(call, "-m venv") {
			created = true
		}
	}
	if !created {
		t.Error("venv was not rebuilt under --recreate")
	}
}

func TestRunModuleFailureAbortsNamingModule(t *testing.T) {
	runner := &fakeRunner{failOn: "module load Stages/2024"}
	pipe, regPath := testPipeline(t, runner, Options{})

	_, err := pipe.Run(context.Background(), parseSample(t), "dev", t.TempDir())
	if err == nil {
		t.Fatal("Run succeeded despite module failure")
	}

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("err = %T, want *ProcessError", err)
	}
	if !strings.Contains(procErr.Step, "Stages/2024") {
		t.Errorf("error does not name the failing module: %v", procErr)
	}

	if len(runner.calls) != 1 {
		t.Errorf("pipeline continued after module failure: %q", runner.calls)
	}
	if _, statErr := os.Stat(regPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("registry was written despite failed setup")
	}
}

func TestRunHostNotEligible(t *testing.T) {
	runner := &fakeRunner{}
	pipe, _ := testPipeline(t, runner, Options{})
	t.Setenv("ZENV_HOSTNAME", "unrelated.othercluster")

	_, err := pipe.Run(context.Background(), parseSample(t), "gpu", t.TempDir())
	if !errors.Is(err, ErrHostNotEligible) {
		t.Fatalf("err = %v, want ErrHostNotEligible", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("external commands ran on an ineligible host: %q", runner.calls)
	}
}

func TestRunBypassHostCheck(t *testing.T) {
	runner := &fakeRunner{fakedVenvOK: true}
	pipe, _ := testPipeline(t, runner, Options{BypassHostCheck: true})
	t.Setenv("ZENV_HOSTNAME", "unrelated.othercluster")

	if _, err := pipe.Run(context.Background(), parseSample(t), "gpu", t.TempDir()); err != nil {
		t.Fatalf("Run with bypass: %v", err)
	}
}

func TestRunDryRunExecutesNothing(t *testing.T) {
	runner := &fakeRunner{}
	var out bytes.Buffer
	pipe, regPath := testPipeline(t, runner, Options{DryRun: true, Stdout: &out, Stderr: &out})

	res, err := pipe.Run(context.Background(), parseSample(t), "dev", t.TempDir())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.DryRun {
		t.Error("result not marked as dry run")
	}
	if len(runner.calls) != 0 {
		t.Errorf("dry run executed commands: %q", runner.calls)
	}
	if _, statErr := os.Stat(regPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("dry run wrote the registry")
	}

	plan := out.String()
	for _, want := range []string{"module load Stages/2024", "python3 -m venv", "pip install numpy scipy", "echo configured"} {
		if !strings.Contains(plan, want) {
			t.Errorf("plan missing %q:\n%s", want, plan)
		}
	}
}

func TestRunUnknownEnvironment(t *testing.T) {
	pipe, _ := testPipeline(t, &fakeRunner{}, Options{})

	_, err := pipe.Run(context.Background(), parseSample(t), "missing", t.TempDir())
	if !errors.Is(err, zenvfile.ErrEnvNotFound) {
		t.Fatalf("err = %v, want ErrEnvNotFound", err)
	}
}

func TestValidateCommands(t *testing.T) {
	t.Parallel()

	if err := ValidateCommands([]string{"echo ok", "pip install -e ."}); err != nil {
		t.Errorf("valid commands rejected: %v", err)
	}
	if err := ValidateCommands([]string{"echo 'unterminated"}); err == nil {
		t.Error("invalid shell syntax accepted")
	}
}

func TestRenderActivationScriptStableVarOrder(t *testing.T) {
	t.Parallel()

	eff := &zenvfile.EffectiveConfig{
		Name:    "dev",
		Modules: []string{"Python", "CUDA"},
		Vars:    map[string]string{"ZED": "1", "ALPHA": "two words"},
	}

	script := RenderActivationScript(eff, "/proj/.zenv/dev")
	if script != RenderActivationScript(eff, "/proj/.zenv/dev") {
		t.Fatal("rendering is not deterministic")
	}

	alpha := strings.Index(script, "export ALPHA='two words'")
	zed := strings.Index(script, "export ZED='1'")
	if alpha == -1 || zed == -1 || alpha > zed {
		t.Errorf("vars missing or unsorted:\n%s", script)
	}

	moduleLine := strings.Index(script, "module load Python")
	sourceLine := strings.Index(script, "source '/proj/.zenv/dev/bin/activate'")
	if moduleLine == -1 || sourceLine == -1 || moduleLine > sourceLine {
		t.Errorf("module loads must precede venv activation:\n%s", script)
	}
}

func TestCommandEnvironPrependsVenvBin(t *testing.T) {
	env := commandEnviron("/proj/.zenv/dev", map[string]string{"FOO": "bar"})

	var path, virtualEnv, foo string
	for _, kv := range env {
		switch {
		case strings.HasPrefix(kv, "PATH="):
			path = kv
		case strings.HasPrefix(kv, "VIRTUAL_ENV="):
			virtualEnv = kv
		case strings.HasPrefix(kv, "FOO="):
			foo = kv
		}
	}

	wantPrefix := "PATH=" + filepath.Join("/proj/.zenv/dev", "bin") + string(os.PathListSeparator)
	if !strings.HasPrefix(path, wantPrefix) {
		t.Errorf("PATH = %q, want prefix %q", path, wantPrefix)
	}
	if virtualEnv != "VIRTUAL_ENV=/proj/.zenv/dev" {
		t.Errorf("VIRTUAL_ENV = %q", virtualEnv)
	}
	if foo != "FOO=bar" {
		t.Errorf("custom var = %q", foo)
	}
}
