package project

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

func TestFolderLoadRequiresVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.sol"), "contract A {}")

	_, err := NewFolderProject(dir, nil).Load(Options{Dir: dir})

	var missing *MissingVersionError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingVersionError, got %v", err)
	}
	if missing.Dir != dir {
		t.Errorf("expected dir %s in error, got %s", dir, missing.Dir)
	}
}

func TestFolderLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Token.sol"), "contract Token {}")
	writeFile(t, filepath.Join(dir, "lib", "Math.sol"), "library Math {}")
	writeFile(t, filepath.Join(dir, "README.md"), "not a source")
	writeFile(t, filepath.Join(dir, "remappings.txt"), "# deps\n\n@oz/=lib/oz/\n")

	callerSettings := solcjson.Settings{"evmVersion": "paris"}
	units, err := NewFolderProject(dir, nil).Load(Options{
		Dir:      dir,
		Version:  "0.8.19",
		Settings: callerSettings,
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}

	unit := units[0]
	if unit.Version != "0.8.19" {
		t.Errorf("expected version 0.8.19, got %s", unit.Version)
	}
	if len(unit.Input.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %v", unit.Input.Sources)
	}
	if _, ok := unit.Input.Sources["lib/Math.sol"]; !ok {
		t.Error("expected slash-relative source path lib/Math.sol")
	}

	if got := unit.Input.Settings["evmVersion"]; got != "paris" {
		t.Errorf("caller settings lost: %v", got)
	}
	remappings := unit.Input.Settings.Remappings()
	if len(remappings) != 1 || remappings[0] != "@oz/=lib/oz/" {
		t.Errorf("expected remappings from remappings.txt, got %v", remappings)
	}

	// The caller's map stays untouched.
	if _, ok := callerSettings["remappings"]; ok {
		t.Error("loader must not mutate caller settings")
	}
}

func TestFolderLoadNoSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), "nothing here")

	_, err := NewFolderProject(dir, nil).Load(Options{Dir: dir, Version: "0.8.19"})

	var noSources *NoSourcesError
	if !errors.As(err, &noSources) {
		t.Fatalf("expected NoSourcesError, got %v", err)
	}
}
