package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/pantsctl/internal/dispatch"
	"github.com/danmuck/pantsctl/internal/logging"
)

func main() {
	var (
		configPath  = flag.String("config", "", "optional TOML config path")
		version     = flag.String("version", "", "pin the orchestrator to a release version")
		revision    = flag.String("revision", "", "pin the orchestrator to a source revision hash")
		target      = flag.String("target", "", "build target passed to export-codegen")
		interpreter = flag.String("interpreter", "", "interpreter name (overrides the PY selector)")
		backends    = flag.String("backend-packages", "", "comma-separated backend package list")
	)
	flag.Parse()

	logging.ConfigureRuntime()

	cfg, err := buildConfig(*configPath, *version, *revision, *target, *interpreter, *backends)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pantsctl: %v\n", err)
		os.Exit(1)
	}

	code, err := dispatch.NewServiceWithConfig(cfg).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pantsctl: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

// pantsctl config assembly: defaults, then file, then flags.
func buildConfig(path, version, revision, target, interpreter, backends string) (dispatch.ServiceConfig, error) {
	cfg := dispatch.DefaultServiceConfig()
	if path != "" {
		loaded, err := loadServiceConfig(path)
		if err != nil {
			return dispatch.ServiceConfig{}, err
		}
		cfg = loaded
	}

	if version != "" && revision != "" {
		return dispatch.ServiceConfig{}, fmt.Errorf("-version and -revision are mutually exclusive")
	}
	if version != "" {
		cfg.Version = dispatch.VersionSelector{Kind: dispatch.VersionByRelease, Value: version}
	}
	if revision != "" {
		cfg.Version = dispatch.VersionSelector{Kind: dispatch.VersionByRevision, Value: revision}
	}
	if target != "" {
		cfg.Target = target
	}
	if interpreter != "" {
		cfg.Interpreter = interpreter
	}
	if backends != "" {
		cfg.BackendPackages = splitPackages(backends)
	}

	return cfg, nil
}

func splitPackages(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		v := strings.TrimSpace(part)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
