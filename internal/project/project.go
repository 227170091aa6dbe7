// Package project turns a directory on disk into compilation units.
// Three layouts are recognized: Hardhat projects, whose build-info
// files already carry complete compiler inputs; Foundry projects,
// assembled by convention from foundry.toml, remappings and the source
// tree; and bare folders of .sol files.
package project

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/altuslabsxyz/solbuild/internal/output"
	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// Mode identifies the detected project layout.
type Mode string

const (
	ModeHardhat Mode = "hardhat"
	ModeFoundry Mode = "foundry"
	ModeFolder  Mode = "folder"
)

// Unit is one compilation to run: a version pin plus a complete
// standard JSON input. Hardhat projects yield one unit per build-info
// file; the other layouts yield exactly one.
type Unit struct {
	Name    string
	Version string
	Input   *solcjson.Input
}

// DefaultBuildTimeout bounds an upstream framework build.
const DefaultBuildTimeout = 15 * time.Minute

// Options configures project loading.
type Options struct {
	// Dir is the project root.
	Dir string

	// Version pins the compiler explicitly and takes precedence over
	// anything the project config says.
	Version string

	// Settings seeds the compiler settings for convention-based
	// layouts. Hardhat inputs are taken verbatim and ignore it.
	Settings solcjson.Settings

	// NoBuild disables running the upstream build tool when a Hardhat
	// project has no build info yet.
	NoBuild bool

	// BuildTimeout bounds the upstream build; zero means
	// DefaultBuildTimeout.
	BuildTimeout time.Duration

	Logger *output.Logger
}

// Detect inspects a directory and reports its project layout.
func Detect(dir string) Mode {
	for _, name := range []string{"hardhat.config.js", "hardhat.config.ts", "hardhat.config.cjs", "hardhat.config.mjs"} {
		if fileExists(filepath.Join(dir, name)) {
			return ModeHardhat
		}
	}
	if fileExists(filepath.Join(dir, "foundry.toml")) {
		return ModeFoundry
	}
	return ModeFolder
}

// Load detects the project layout and loads its compilation units.
func Load(ctx context.Context, opts Options) (Mode, []*Unit, error) {
	if opts.Logger == nil {
		opts.Logger = output.DefaultLogger
	}
	if opts.BuildTimeout == 0 {
		opts.BuildTimeout = DefaultBuildTimeout
	}

	mode := Detect(opts.Dir)
	opts.Logger.Debug("Detected %s project at %s", mode, opts.Dir)

	var (
		units []*Unit
		err   error
	)
	switch mode {
	case ModeHardhat:
		units, err = NewHardhatProject(opts.Dir, opts.Logger).Load(ctx, opts)
	case ModeFoundry:
		units, err = NewFoundryProject(opts.Dir, opts.Logger).Load(opts)
	default:
		units, err = NewFolderProject(opts.Dir, opts.Logger).Load(opts)
	}
	if err != nil {
		return mode, nil, err
	}
	return mode, units, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
