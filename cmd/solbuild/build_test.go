package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/solbuild/internal/config"
	"github.com/altuslabsxyz/solbuild/internal/project"
	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// newFlagHarness registers the build flags against a fresh options
// struct so flag-dependent helpers can be exercised in isolation.
func newFlagHarness() (*cobra.Command, *buildOpts) {
	opts := &buildOpts{
		timeout:       "10m",
		buildTimeout:  "15m",
		optimizerRuns: 200,
	}
	cmd := &cobra.Command{Use: "build"}
	cmd.Flags().StringVar(&opts.solcVersion, "solc-version", "", "")
	cmd.Flags().StringVar(&opts.outputDir, "output", "", "")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "")
	cmd.Flags().StringVar(&opts.timeout, "timeout", opts.timeout, "")
	cmd.Flags().StringVar(&opts.buildTimeout, "build-timeout", opts.buildTimeout, "")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "")
	cmd.Flags().BoolVar(&opts.optimize, "optimize", false, "")
	cmd.Flags().IntVar(&opts.optimizerRuns, "optimizer-runs", opts.optimizerRuns, "")
	cmd.Flags().StringVar(&opts.evmVersion, "evm-version", "", "")
	cmd.Flags().BoolVar(&opts.viaIR, "via-ir", false, "")
	return cmd, opts
}

func TestSettingsFromFlagsDefault(t *testing.T) {
	cmd, opts := newFlagHarness()

	if settings := settingsFromFlags(cmd, opts); settings != nil {
		t.Errorf("untouched flags must produce no settings, got %v", settings)
	}
}

func TestSettingsFromFlagsOptimize(t *testing.T) {
	cmd, opts := newFlagHarness()
	if err := cmd.Flags().Set("optimize", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	settings := settingsFromFlags(cmd, opts)
	optimizer, ok := settings["optimizer"].(map[string]any)
	if !ok {
		t.Fatalf("expected optimizer settings, got %v", settings)
	}
	if optimizer["enabled"] != true || optimizer["runs"] != 200 {
		t.Errorf("wrong optimizer settings: %v", optimizer)
	}
}

func TestSettingsFromFlagsRunsImpliesOptimize(t *testing.T) {
	cmd, opts := newFlagHarness()
	if err := cmd.Flags().Set("optimizer-runs", "999"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	settings := settingsFromFlags(cmd, opts)
	optimizer := settings["optimizer"].(map[string]any)
	if optimizer["enabled"] != true || optimizer["runs"] != 999 {
		t.Errorf("expected implied optimization with 999 runs, got %v", optimizer)
	}
}

func TestSettingsFromFlagsEVM(t *testing.T) {
	cmd, opts := newFlagHarness()
	if err := cmd.Flags().Set("evm-version", "paris"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cmd.Flags().Set("via-ir", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	settings := settingsFromFlags(cmd, opts)
	if settings["evmVersion"] != "paris" {
		t.Errorf("expected evmVersion paris, got %v", settings["evmVersion"])
	}
	if settings["viaIR"] != true {
		t.Errorf("expected viaIR true, got %v", settings["viaIR"])
	}
	if _, ok := settings["optimizer"]; ok {
		t.Error("optimizer must stay unset")
	}
}

func TestApplyBuildConfigPrecedence(t *testing.T) {
	version := "0.8.19"
	noCache := true
	loadedFileConfig = &config.FileConfig{SolcVersion: &version, NoCache: &noCache}
	t.Cleanup(func() { loadedFileConfig = nil })
	t.Setenv("SOLBUILD_SOLC_VERSION", "")

	cmd, opts := newFlagHarness()
	applyBuildConfig(cmd, opts)
	if opts.solcVersion != "0.8.19" {
		t.Errorf("expected config value, got %s", opts.solcVersion)
	}
	if !opts.noCache {
		t.Error("expected no_cache from config")
	}

	// Environment beats the config file.
	t.Setenv("SOLBUILD_SOLC_VERSION", "0.8.21")
	cmd, opts = newFlagHarness()
	applyBuildConfig(cmd, opts)
	if opts.solcVersion != "0.8.21" {
		t.Errorf("expected env value, got %s", opts.solcVersion)
	}

	// An explicit flag beats both.
	cmd, opts = newFlagHarness()
	if err := cmd.Flags().Set("solc-version", "0.8.25"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	applyBuildConfig(cmd, opts)
	if opts.solcVersion != "0.8.25" {
		t.Errorf("expected flag value, got %s", opts.solcVersion)
	}
}

func TestUnitArgs(t *testing.T) {
	unit := &project.Unit{
		Name:    "build-1",
		Version: "0.8.17",
		Input:   solcjson.NewInput(map[string]string{"A.sol": "contract A {}"}, nil),
	}

	args := unitArgs(unit)
	if args.Version != "0.8.17" {
		t.Errorf("version not carried, got %s", args.Version)
	}
	if args.Input != unit.Input {
		t.Error("input must be passed through, not copied")
	}
}

func TestEmitJSONWritesFile(t *testing.T) {
	dir := t.TempDir()

	if err := emitJSON(dir, "Token.json", map[string]string{"contract": "Token"}); err != nil {
		t.Fatalf("emitJSON failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Token.json"))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("artifact is not JSON: %v", err)
	}
	if decoded["contract"] != "Token" {
		t.Errorf("wrong content: %v", decoded)
	}
}

func TestDisplayVersion(t *testing.T) {
	if got := displayVersion(""); got != "(from project)" {
		t.Errorf("expected (from project), got %s", got)
	}
	if got := displayVersion("0.8.19"); got != "0.8.19" {
		t.Errorf("expected 0.8.19, got %s", got)
	}
}

func TestDedupeSorted(t *testing.T) {
	got := dedupeSorted([]string{"Vault", "Token", "Vault", "Math", "Token"})
	want := []string{"Math", "Token", "Vault"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	if got := dedupeSorted(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
