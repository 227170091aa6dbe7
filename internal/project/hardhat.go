package project

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/altuslabsxyz/solbuild/internal/output"
	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// buildInfoDir is where Hardhat writes its build-info files, relative
// to the project root.
const buildInfoDir = "artifacts/build-info"

// HardhatProject loads compilation units from a Hardhat project. The
// framework has already resolved imports and settings into build-info
// files, so each file becomes one unit verbatim.
type HardhatProject struct {
	dir    string
	logger *output.Logger
}

// buildInfo is the subset of a Hardhat build-info file the pipeline
// needs.
type buildInfo struct {
	Format          string          `json:"_format"`
	ID              string          `json:"id"`
	SolcVersion     string          `json:"solcVersion"`
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           *solcjson.Input `json:"input"`
}

// NewHardhatProject creates a Hardhat project loader.
func NewHardhatProject(dir string, logger *output.Logger) *HardhatProject {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &HardhatProject{
		dir:    dir,
		logger: logger,
	}
}

// Load returns one unit per build-info file. When the project has no
// build info yet, the framework's own build runs first so version pins
// and import resolution stay exactly what the project declares.
func (p *HardhatProject) Load(ctx context.Context, opts Options) ([]*Unit, error) {
	files, err := p.buildInfoFiles()
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		if opts.NoBuild {
			return nil, &UpstreamBuildError{
				Tool: "hardhat",
				Err:  fmt.Errorf("no build info under %s and building is disabled", buildInfoDir),
			}
		}
		if err := p.runBuild(ctx, opts); err != nil {
			return nil, err
		}
		if files, err = p.buildInfoFiles(); err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, &UpstreamBuildError{
				Tool: "hardhat",
				Err:  fmt.Errorf("build succeeded but produced no build info under %s", buildInfoDir),
			}
		}
	}

	sort.Strings(files)
	units := make([]*Unit, 0, len(files))
	for _, file := range files {
		unit, err := p.loadBuildInfo(file, opts)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	if len(units) > 1 {
		p.logger.Info("Hardhat project has %d build(s)", len(units))
	}
	return units, nil
}

// buildInfoFiles lists the build-info JSON files, if any.
func (p *HardhatProject) buildInfoFiles() ([]string, error) {
	dir := filepath.Join(p.dir, buildInfoDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// loadBuildInfo parses one build-info file into a unit.
func (p *HardhatProject) loadBuildInfo(path string, opts Options) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build info: %w", err)
	}

	var info buildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse build info %s: %w", filepath.Base(path), err)
	}
	if info.Input == nil {
		return nil, fmt.Errorf("build info %s has no compiler input", filepath.Base(path))
	}

	version := opts.Version
	if version == "" {
		version = info.SolcLongVersion
	}
	if version == "" {
		version = info.SolcVersion
	}

	name := strings.TrimSuffix(filepath.Base(path), ".json")
	p.logger.Debug("Loaded build info %s (solc %s, %d sources)", name, version, len(info.Input.Sources))
	return &Unit{
		Name:    name,
		Version: version,
		Input:   info.Input,
	}, nil
}

// runBuild invokes the project's own build through npx so the locally
// pinned Hardhat version is used.
func (p *HardhatProject) runBuild(ctx context.Context, opts Options) error {
	if _, err := exec.LookPath("npx"); err != nil {
		return &UpstreamBuildError{
			Tool: "hardhat",
			Err:  fmt.Errorf("npx not found in PATH, build the project first or install Node.js"),
		}
	}

	p.logger.Info("No build info found, running hardhat compile...")

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.BuildTimeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, "npx", "hardhat", "compile")
	cmd.Dir = p.dir

	var stderrBuf strings.Builder
	cmd.Stdout = p.logger.Writer()
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		return &UpstreamBuildError{
			Tool:   "hardhat",
			Stderr: stderrBuf.String(),
			Err:    err,
		}
	}
	return nil
}
