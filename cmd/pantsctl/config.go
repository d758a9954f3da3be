package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/pantsctl/internal/dispatch"
)

type fileConfig struct {
	Orchestrator       string   `toml:"orchestrator"`
	BuildTool          string   `toml:"build_tool"`
	ToolchainInstaller string   `toml:"toolchain_installer"`
	Interpreter        string   `toml:"interpreter"`
	Version            string   `toml:"version"`
	Revision           string   `toml:"revision"`
	BackendPackages    []string `toml:"backend_packages"`
	Target             string   `toml:"target"`
}

func loadServiceConfig(path string) (dispatch.ServiceConfig, error) {
	cfg := dispatch.DefaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return dispatch.ServiceConfig{}, fmt.Errorf("load pantsctl config: %w", err)
	}

	if meta.IsDefined("version") && meta.IsDefined("revision") {
		return dispatch.ServiceConfig{}, fmt.Errorf("load pantsctl config: version and revision are mutually exclusive")
	}

	if meta.IsDefined("orchestrator") {
		if v := strings.TrimSpace(raw.Orchestrator); v != "" {
			cfg.Orchestrator = v
		}
	}

	if meta.IsDefined("build_tool") {
		if v := strings.TrimSpace(raw.BuildTool); v != "" {
			cfg.BuildTool = v
		}
	}

	if meta.IsDefined("toolchain_installer") {
		if v := strings.TrimSpace(raw.ToolchainInstaller); v != "" {
			cfg.ToolchainInstaller = v
		}
	}

	if meta.IsDefined("interpreter") {
		cfg.Interpreter = strings.TrimSpace(raw.Interpreter)
	}

	if meta.IsDefined("version") {
		cfg.Version = dispatch.VersionSelector{
			Kind:  dispatch.VersionByRelease,
			Value: strings.TrimSpace(raw.Version),
		}
	}

	if meta.IsDefined("revision") {
		cfg.Version = dispatch.VersionSelector{
			Kind:  dispatch.VersionByRevision,
			Value: strings.TrimSpace(raw.Revision),
		}
	}

	if meta.IsDefined("backend_packages") {
		cfg.BackendPackages = normalizePackages(raw.BackendPackages)
	}

	if meta.IsDefined("target") {
		if v := strings.TrimSpace(raw.Target); v != "" {
			cfg.Target = v
		}
	}

	return cfg, nil
}

func normalizePackages(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, pkg := range in {
		v := strings.TrimSpace(pkg)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
