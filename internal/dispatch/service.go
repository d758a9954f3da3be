package dispatch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/danmuck/pantsctl/internal/logging"
	"github.com/danmuck/pantsctl/internal/toolchain"
)

var (
	ErrOrchestratorNotFound = errors.New("dispatch: orchestrator not found on PATH")
	ErrInvalidVersionPin    = errors.New("dispatch: invalid version pin")
)

// OrchestratorInstallHint is the fixed diagnostic emitted when the
// orchestrator binary is missing.
const OrchestratorInstallHint = "install the pants native binary distribution " +
	"(https://www.pantsbuild.org/docs/installation) and ensure it is on PATH"

// Fixed argument vector for the codegen-export invocation.
const (
	flagNoDaemon            = "--no-pantsd"
	flagNoVerifyConfig      = "--no-verify-config"
	flagNoDelegateBootstrap = "--no-delegate-bootstrap"
	goalExportCodegen       = "export-codegen"
)

// ServiceConfig configures a single dispatch run.
type ServiceConfig struct {
	Orchestrator       string
	BuildTool          string
	ToolchainInstaller string
	// Interpreter overrides the PY selector; blank means selector/default.
	Interpreter     string
	Version         VersionSelector
	BackendPackages []string
	Target          string
}

// Dispatch run defaults matching the historical release-pinned variant.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Orchestrator:       "pants",
		BuildTool:          "cargo",
		ToolchainInstaller: "rustup",
		Interpreter:        "",
		Version:            VersionSelector{Kind: VersionByRelease, Value: "2.16.0"},
		BackendPackages: []string{
			"pants.backend.codegen.protobuf.python",
			"pants.backend.codegen.thrift.apache.python",
		},
		Target: "src/python/pants::",
	}
}

// Service resolves the prerequisite toolchains and runs one orchestrator
// invocation. Each run is stateless; resolution is a pure function of PATH.
type Service struct {
	cfg    ServiceConfig
	runner Runner
}

// Dispatch service constructor using default run config.
func NewService() *Service {
	return NewServiceWithConfig(DefaultServiceConfig())
}

// Dispatch service constructor using explicit config.
func NewServiceWithConfig(cfg ServiceConfig) *Service {
	if strings.TrimSpace(cfg.Orchestrator) == "" {
		cfg.Orchestrator = "pants"
	}
	return &Service{cfg: cfg, runner: ExecRunner{}}
}

// WithRunner swaps the command runner.
func (s *Service) WithRunner(r Runner) *Service {
	s.runner = r
	return s
}

// Run executes the resolve -> verify -> dispatch pipeline and returns the
// child's exit code. A missing prerequisite or orchestrator is fatal before
// any child is spawned.
func (s *Service) Run() (int, error) {
	log := logging.Logger()

	if err := validateVersion(s.cfg.Version); err != nil {
		return 1, err
	}

	overrides, err := s.resolveOverrides()
	if err != nil {
		return 1, err
	}
	log.Debug().
		Str("cargo_dir", overrides.CargoDir).
		Str("rustup_dir", overrides.RustupDir).
		Str("runtime_dir", overrides.Runtime.Dir).
		Str("runtime_bin", overrides.Runtime.Bin).
		Msg("toolchains resolved")

	orchestrator, err := s.verifyOrchestrator()
	if err != nil {
		return 1, err
	}

	argv := s.argv()
	log.Info().
		Str("orchestrator", orchestrator).
		Strs("argv", argv).
		Str(string(s.cfg.Version.Kind), s.cfg.Version.Value).
		Msg("dispatching")

	code, err := s.runner.Run(orchestrator, argv, overrides.Environ(os.Environ()), os.Stdout, os.Stderr)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Child ran and failed; the exit code is the whole story.
		return code, nil
	}
	return code, err
}

// Dispatch override assembly; every prerequisite must resolve or the run
// aborts naming the missing tool.
func (s *Service) resolveOverrides() (Overrides, error) {
	cargoDir, err := toolchain.ResolveDir(s.cfg.BuildTool)
	if err != nil {
		return Overrides{}, err
	}

	rustupDir, err := toolchain.ResolveDir(s.cfg.ToolchainInstaller)
	if err != nil {
		return Overrides{}, err
	}

	interpreter := strings.TrimSpace(s.cfg.Interpreter)
	if interpreter == "" {
		interpreter = toolchain.Interpreter()
	}
	runtime, err := toolchain.ResolveRuntime(interpreter)
	if err != nil {
		return Overrides{}, err
	}

	return Overrides{
		CargoDir:        cargoDir,
		RustupDir:       rustupDir,
		Runtime:         runtime,
		Version:         s.cfg.Version,
		BackendPackages: s.cfg.BackendPackages,
	}, nil
}

// Dispatch preflight for the orchestrator binary itself.
func (s *Service) verifyOrchestrator() (string, error) {
	path, err := exec.LookPath(s.cfg.Orchestrator)
	if err != nil {
		return "", fmt.Errorf("%w: %s; %s", ErrOrchestratorNotFound, s.cfg.Orchestrator, OrchestratorInstallHint)
	}
	return path, nil
}

func (s *Service) argv() []string {
	return []string{
		flagNoDaemon,
		flagNoVerifyConfig,
		flagNoDelegateBootstrap,
		goalExportCodegen,
		s.cfg.Target,
	}
}

func validateVersion(v VersionSelector) error {
	if strings.TrimSpace(v.Value) == "" {
		return fmt.Errorf("%w: empty %s value", ErrInvalidVersionPin, v.Kind)
	}
	switch v.Kind {
	case VersionByRelease, VersionByRevision:
		return nil
	default:
		return fmt.Errorf("%w: unknown selector kind %q", ErrInvalidVersionPin, v.Kind)
	}
}
