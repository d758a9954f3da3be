package dispatch

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/danmuck/pantsctl/internal/testutil/testlog"
	"github.com/danmuck/pantsctl/internal/toolchain"
)

type recordingRunner struct {
	calls int
	name  string
	args  []string
	env   []string
	code  int
}

func (r *recordingRunner) Run(name string, args []string, env []string, stdout, stderr io.Writer) (int, error) {
	r.calls++
	r.name = name
	r.args = args
	r.env = env
	return r.code, nil
}

func installTool(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("install fake tool %s: %v", name, err)
	}
}

func scratchToolchain(t *testing.T, tools ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, tool := range tools {
		installTool(t, dir, tool)
	}
	t.Setenv("PATH", dir)
	t.Setenv(toolchain.EnvInterpreterSelector, "")
	return dir
}

func TestRunDispatchesFixedArgv(t *testing.T) {
	testlog.Start(t)
	dir := scratchToolchain(t, "cargo", "rustup", "python3", "pants")

	runner := &recordingRunner{}
	code, err := NewService().WithRunner(runner).Run()
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if runner.calls != 1 {
		t.Fatalf("expected exactly one child invocation, got %d", runner.calls)
	}
	if runner.name != filepath.Join(dir, "pants") {
		t.Fatalf("unexpected orchestrator path: %q", runner.name)
	}

	want := []string{"--no-pantsd", "--no-verify-config", "--no-delegate-bootstrap", "export-codegen", "src/python/pants::"}
	if !slices.Equal(runner.args, want) {
		t.Fatalf("unexpected argv\nwant: %v\ngot:  %v", want, runner.args)
	}

	if !slices.Contains(runner.env, "CARGO_DIR="+dir) {
		t.Fatalf("expected cargo dir override in child env")
	}
	if !slices.Contains(runner.env, "RUSTUP_DIR="+dir) {
		t.Fatalf("expected rustup dir override in child env")
	}
	if !slices.Contains(runner.env, "PYTHON_BIN=python3") {
		t.Fatalf("expected runtime binary override in child env")
	}
	if !slices.Contains(runner.env, "PANTS_VERSION=2.16.0") {
		t.Fatalf("expected release pin in child env")
	}
}

func TestRunPropagatesChildExitCode(t *testing.T) {
	scratchToolchain(t, "cargo", "rustup", "python3", "pants")

	runner := &recordingRunner{code: 42}
	code, err := NewService().WithRunner(runner).Run()
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if code != 42 {
		t.Fatalf("expected child exit code 42 verbatim, got %d", code)
	}
}

func TestRunMissingOrchestratorIsFatalBeforeDispatch(t *testing.T) {
	testlog.Start(t)
	scratchToolchain(t, "cargo", "rustup", "python3")

	runner := &recordingRunner{}
	code, err := NewService().WithRunner(runner).Run()
	if !errors.Is(err, ErrOrchestratorNotFound) {
		t.Fatalf("expected ErrOrchestratorNotFound, got %v", err)
	}
	if code == 0 {
		t.Fatalf("expected non-zero exit code")
	}
	if runner.calls != 0 {
		t.Fatalf("no child may be spawned when the orchestrator is missing")
	}
	if !strings.Contains(err.Error(), OrchestratorInstallHint) {
		t.Fatalf("expected install diagnostic, got %q", err)
	}
}

func TestRunMissingPrerequisiteIsFatalAndNamed(t *testing.T) {
	scratchToolchain(t, "rustup", "python3", "pants")

	runner := &recordingRunner{}
	_, err := NewService().WithRunner(runner).Run()
	if !errors.Is(err, toolchain.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "cargo") {
		t.Fatalf("expected error to name the missing tool, got %q", err)
	}
	if runner.calls != 0 {
		t.Fatalf("no child may be spawned when a prerequisite is missing")
	}
}

func TestRunInterpreterSelector(t *testing.T) {
	dir := scratchToolchain(t, "cargo", "rustup", "python3.12", "pants")
	t.Setenv(toolchain.EnvInterpreterSelector, "python3.12")

	runner := &recordingRunner{}
	if _, err := NewService().WithRunner(runner).Run(); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if !slices.Contains(runner.env, "PYTHON_BIN=python3.12") {
		t.Fatalf("expected selector-chosen runtime binary, got %v", runner.env)
	}
	if !slices.Contains(runner.env, "PYTHON_DIR="+dir) {
		t.Fatalf("expected runtime dir override, got %v", runner.env)
	}
}

func TestRunRejectsInvalidVersionPin(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.Version = VersionSelector{Kind: VersionByRelease, Value: "  "}

	runner := &recordingRunner{}
	_, err := NewServiceWithConfig(cfg).WithRunner(runner).Run()
	if !errors.Is(err, ErrInvalidVersionPin) {
		t.Fatalf("expected ErrInvalidVersionPin, got %v", err)
	}
	if runner.calls != 0 {
		t.Fatalf("no child may be spawned with an invalid pin")
	}
}
