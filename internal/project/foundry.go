package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/altuslabsxyz/solbuild/internal/output"
	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// defaultOptimizerRuns matches Foundry's default when the optimizer is
// enabled without an explicit run count.
const defaultOptimizerRuns = 200

// FoundryProject assembles a compilation unit by convention: sources
// from the configured src and lib directories, remappings from
// remappings.txt and foundry.toml, and compiler settings from the
// active profile.
type FoundryProject struct {
	dir    string
	logger *output.Logger
}

// foundryConfig is the subset of foundry.toml the loader reads.
type foundryConfig struct {
	Profile map[string]foundryProfile `toml:"profile"`
}

type foundryProfile struct {
	Src           string   `toml:"src"`
	Libs          []string `toml:"libs"`
	Remappings    []string `toml:"remappings"`
	Solc          string   `toml:"solc"`
	SolcVersion   string   `toml:"solc_version"`
	Optimizer     *bool    `toml:"optimizer"`
	OptimizerRuns *int     `toml:"optimizer_runs"`
	EVMVersion    string   `toml:"evm_version"`
	ViaIR         *bool    `toml:"via_ir"`
}

// NewFoundryProject creates a Foundry project loader.
func NewFoundryProject(dir string, logger *output.Logger) *FoundryProject {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &FoundryProject{
		dir:    dir,
		logger: logger,
	}
}

// Load builds the single compilation unit of a Foundry project.
func (p *FoundryProject) Load(opts Options) ([]*Unit, error) {
	profile, err := p.loadProfile()
	if err != nil {
		return nil, err
	}

	version := opts.Version
	if version == "" {
		version = profile.Solc
	}
	if version == "" {
		version = profile.SolcVersion
	}
	if version == "" {
		return nil, &MissingVersionError{Dir: p.dir}
	}

	srcDir := profile.Src
	if srcDir == "" {
		srcDir = "src"
	}
	libDirs := profile.Libs
	if len(libDirs) == 0 {
		libDirs = []string{"lib"}
	}

	// Library sources ride along under their on-disk paths; the
	// remappings below make `import "forge-std/..."` style paths
	// resolve against them.
	sources, err := collectSources(p.dir, append([]string{srcDir}, libDirs...))
	if err != nil {
		return nil, err
	}

	fileRemappings, err := readRemappingsFile(filepath.Join(p.dir, "remappings.txt"))
	if err != nil {
		return nil, err
	}
	remappings := mergeRemappings(fileRemappings, profile.Remappings)

	settings := p.buildSettings(opts.Settings, profile, remappings)
	input := solcjson.NewInput(sources, settings)

	p.logger.Debug("Foundry project: %d sources, %d remappings, solc %s", len(sources), len(remappings), version)
	return []*Unit{{
		Name:    filepath.Base(p.dir),
		Version: version,
		Input:   input,
	}}, nil
}

// loadProfile parses foundry.toml and returns the active profile,
// honoring FOUNDRY_PROFILE the way the toolchain itself does.
func (p *FoundryProject) loadProfile() (*foundryProfile, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, "foundry.toml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read foundry.toml: %w", err)
	}

	var cfg foundryConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	name := os.Getenv("FOUNDRY_PROFILE")
	if name == "" {
		name = "default"
	}
	profile, ok := cfg.Profile[name]
	if !ok {
		if name != "default" {
			p.logger.Warn("Profile %s not found in foundry.toml, using default", name)
			profile = cfg.Profile["default"]
		}
	}
	return &profile, nil
}

// buildSettings merges the caller's settings with the profile's
// compiler options. Caller-provided keys win.
func (p *FoundryProject) buildSettings(base solcjson.Settings, profile *foundryProfile, remappings []string) solcjson.Settings {
	settings := solcjson.Settings{}

	if profile.Optimizer != nil {
		runs := defaultOptimizerRuns
		if profile.OptimizerRuns != nil {
			runs = *profile.OptimizerRuns
		}
		settings["optimizer"] = map[string]any{
			"enabled": *profile.Optimizer,
			"runs":    runs,
		}
	}
	if profile.EVMVersion != "" {
		settings["evmVersion"] = profile.EVMVersion
	}
	if profile.ViaIR != nil {
		settings["viaIR"] = *profile.ViaIR
	}

	for k, v := range cloneSettings(base) {
		settings[k] = v
	}
	if len(remappings) > 0 {
		settings.SetRemappings(remappings)
	}
	return settings
}
