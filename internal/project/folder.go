package project

import (
	"path/filepath"

	"github.com/altuslabsxyz/solbuild/internal/output"
	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// FolderProject compiles a bare directory of .sol files. There is no
// framework config to read a version from, so the caller must pin one.
type FolderProject struct {
	dir    string
	logger *output.Logger
}

// NewFolderProject creates a bare-folder loader.
func NewFolderProject(dir string, logger *output.Logger) *FolderProject {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &FolderProject{
		dir:    dir,
		logger: logger,
	}
}

// Load collects every Solidity file under the folder into one unit.
func (p *FolderProject) Load(opts Options) ([]*Unit, error) {
	if opts.Version == "" {
		return nil, &MissingVersionError{Dir: p.dir}
	}

	sources, err := collectSources(p.dir, nil)
	if err != nil {
		return nil, err
	}

	remappings, err := readRemappingsFile(filepath.Join(p.dir, "remappings.txt"))
	if err != nil {
		return nil, err
	}

	settings := solcjson.Settings(cloneSettings(opts.Settings))
	if len(remappings) > 0 {
		settings.SetRemappings(remappings)
	}

	p.logger.Debug("Folder project: %d sources, solc %s", len(sources), opts.Version)
	return []*Unit{{
		Name:    filepath.Base(p.dir),
		Version: opts.Version,
		Input:   solcjson.NewInput(sources, settings),
	}}, nil
}
