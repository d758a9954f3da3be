package toolchain

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrToolNotFound = errors.New("toolchain: tool not found on PATH")

// EnvInterpreterSelector names the interpreter used for the runtime lookup,
// e.g. PY=python3.11.
const EnvInterpreterSelector = "PY"

// DefaultInterpreter is used when the selector variable is unset or blank.
const DefaultInterpreter = "python3"

// Runtime is the resolved language runtime, split into the directory that
// holds the executable and the executable's filename.
type Runtime struct {
	Dir string
	Bin string
}

// Interpreter returns the interpreter name the runtime lookup should use.
func Interpreter() string {
	if v := strings.TrimSpace(os.Getenv(EnvInterpreterSelector)); v != "" {
		return v
	}
	return DefaultInterpreter
}

// ResolveDir returns the absolute directory containing name on PATH.
func ResolveDir(name string) (string, error) {
	path, err := resolve(name)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// ResolveRuntime resolves interpreter on PATH and decomposes the result into
// directory and filename.
func ResolveRuntime(interpreter string) (Runtime, error) {
	path, err := resolve(interpreter)
	if err != nil {
		return Runtime{}, err
	}
	dir, bin := filepath.Split(path)
	return Runtime{Dir: filepath.Clean(dir), Bin: bin}, nil
}

// Toolchain lookup primitive; every exported resolver funnels through here so
// a missing tool always surfaces as a named ErrToolNotFound.
func resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty tool name", ErrToolNotFound)
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("toolchain: absolute path for %s: %w", name, err)
	}
	return abs, nil
}
