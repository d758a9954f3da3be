package dispatch

import (
	"fmt"
	"strings"

	"github.com/danmuck/pantsctl/internal/toolchain"
)

// Child environment variable names recognized by the orchestrator.
const (
	EnvCargoDir        = "CARGO_DIR"
	EnvRustupDir       = "RUSTUP_DIR"
	EnvRuntimeDir      = "PYTHON_DIR"
	EnvRuntimeBin      = "PYTHON_BIN"
	EnvVersion         = "PANTS_VERSION"
	EnvRevision        = "PANTS_SHA"
	EnvBackendPackages = "PANTS_BACKEND_PACKAGES"
)

// VersionSelectorKind tags which pin mechanism a run uses.
type VersionSelectorKind string

const (
	VersionByRelease  VersionSelectorKind = "release"
	VersionByRevision VersionSelectorKind = "revision"
)

// VersionSelector pins the orchestrator build, either to a published release
// version or to a source-control revision hash. Exactly one per run.
type VersionSelector struct {
	Kind  VersionSelectorKind
	Value string
}

// Dispatch version-pin environment key for the selector's mechanism.
func (v VersionSelector) envKey() string {
	if v.Kind == VersionByRevision {
		return EnvRevision
	}
	return EnvVersion
}

// Overrides is the child-scoped configuration published to the orchestrator.
// It is built locally per run and handed to the spawn call only; the parent
// process environment is never mutated.
type Overrides struct {
	CargoDir        string
	RustupDir       string
	Runtime         toolchain.Runtime
	Version         VersionSelector
	BackendPackages []string
}

// Environ returns base extended with the override pairs, in a form suitable
// for exec.Cmd.Env.
func (o Overrides) Environ(base []string) []string {
	env := make([]string, 0, len(base)+7)
	env = append(env, base...)
	env = append(env,
		EnvCargoDir+"="+o.CargoDir,
		EnvRustupDir+"="+o.RustupDir,
		EnvRuntimeDir+"="+o.Runtime.Dir,
		EnvRuntimeBin+"="+o.Runtime.Bin,
		o.Version.envKey()+"="+o.Version.Value,
	)
	if len(o.BackendPackages) > 0 {
		env = append(env, EnvBackendPackages+"="+formatBackendPackages(o.BackendPackages))
	}
	return env
}

// Pants option-list append form: +['a','b'].
func formatBackendPackages(packages []string) string {
	quoted := make([]string, 0, len(packages))
	for _, pkg := range packages {
		pkg = strings.TrimSpace(pkg)
		if pkg == "" {
			continue
		}
		quoted = append(quoted, fmt.Sprintf("'%s'", pkg))
	}
	return "+[" + strings.Join(quoted, ",") + "]"
}
