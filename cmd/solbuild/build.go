package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"cosmossdk.io/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/solbuild/internal/artifacts"
	"github.com/altuslabsxyz/solbuild/internal/cache"
	"github.com/altuslabsxyz/solbuild/internal/compiler"
	"github.com/altuslabsxyz/solbuild/internal/config"
	"github.com/altuslabsxyz/solbuild/internal/interactive"
	"github.com/altuslabsxyz/solbuild/internal/output"
	"github.com/altuslabsxyz/solbuild/internal/project"
	"github.com/altuslabsxyz/solbuild/internal/solc"
	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// buildOpts holds the configuration for the build command.
type buildOpts struct {
	contract       string
	all            bool
	selectContract bool
	solcVersion    string
	outputDir      string
	cacheDir       string
	noCache        bool
	noBuild        bool
	timeout        string
	buildTimeout   string
	optimize       bool
	optimizerRuns  int
	evmVersion     string
	viaIR          bool
}

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	opts := &buildOpts{
		timeout:       "10m",
		buildTimeout:  "15m",
		optimizerRuns: 200,
	}

	cmd := &cobra.Command{
		Use:   "build [project-dir]",
		Short: "Compile a Solidity project into artifact bundles",
		Long: `Build compiles a Solidity project and emits artifact bundles:
  1. Detecting the project layout (Hardhat, Foundry, or a bare folder)
  2. Assembling a standard-JSON compiler input per build unit
  3. Skipping the compiler when an identical input was compiled before
  4. Running the version-pinned solc via solc-select otherwise
  5. Normalizing the output into ABI, bytecode, source map, AST and
     invariant artifacts

Without --contract the bundle covers every compiled contract as
path -> name matrices. With --contract the bundle is scalar for that
one contract; a name defined in several files must be qualified as
"path/File.sol:Name". Bundles go to stdout, or one JSON file per
bundle under --output.

Examples:
  # Build everything in the current directory
  solbuild build

  # Build one contract of a Foundry project into ./artifacts
  solbuild build ./my-project --contract Counter --output ./artifacts

  # Build a bare folder of sources with a pinned compiler
  solbuild build ./contracts --solc-version 0.8.20

  # Pick the contract interactively
  solbuild build --select

  # Force recompilation even when cached
  solbuild build --no-cache`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.contract, "contract", "c", "",
		"Build a single contract by name (or qualified path/File.sol:Name)")
	cmd.Flags().BoolVar(&opts.all, "all", false,
		"Build every contract (the default when --contract is not given)")
	cmd.Flags().BoolVar(&opts.selectContract, "select", false,
		"Pick the contract to build interactively")
	cmd.Flags().StringVar(&opts.solcVersion, "solc-version", "",
		"Compiler version to pin (e.g. 0.8.20), overriding project config")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "",
		"Directory for artifact bundle files (default: stdout)")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "",
		"Compilation cache directory (default: <home>/cache/compile)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false,
		"Recompile even when a cached output exists")
	cmd.Flags().BoolVar(&opts.noBuild, "no-build", false,
		"Fail instead of running the framework build when build info is missing")
	cmd.Flags().StringVar(&opts.timeout, "timeout", opts.timeout,
		"Timeout for a single compiler run")
	cmd.Flags().StringVar(&opts.buildTimeout, "build-timeout", opts.buildTimeout,
		"Timeout for the upstream framework build")
	cmd.Flags().BoolVar(&opts.optimize, "optimize", false,
		"Enable the solc optimizer (bare folders; frameworks keep their own config)")
	cmd.Flags().IntVar(&opts.optimizerRuns, "optimizer-runs", opts.optimizerRuns,
		"Optimizer runs setting (implies --optimize)")
	cmd.Flags().StringVar(&opts.evmVersion, "evm-version", "",
		"Target EVM version (e.g. paris, shanghai)")
	cmd.Flags().BoolVar(&opts.viaIR, "via-ir", false,
		"Compile through the Yul IR pipeline")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *buildOpts, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	if opts.contract != "" && opts.all {
		return fmt.Errorf("--contract and --all are mutually exclusive")
	}
	if opts.contract != "" && opts.selectContract {
		return fmt.Errorf("--contract and --select are mutually exclusive")
	}
	if opts.all && opts.selectContract {
		return fmt.Errorf("--all and --select are mutually exclusive")
	}

	applyBuildConfig(cmd, opts)

	timeout, err := time.ParseDuration(opts.timeout)
	if err != nil {
		return fmt.Errorf("invalid --timeout: %w", err)
	}
	buildTimeout, err := time.ParseDuration(opts.buildTimeout)
	if err != nil {
		return fmt.Errorf("invalid --build-timeout: %w", err)
	}
	cacheDir := opts.cacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(homeDir, cache.CacheSubdir)
	}

	// Artifact bundles go to stdout, so structured build logs go to
	// stderr.
	logger := log.NewLogger(os.Stderr).With("run_id", uuid.NewString()[:8])

	logger.Info("Project directory", "path", dir)
	logger.Info("Compiler", "version", displayVersion(opts.solcVersion))
	logger.Info("Cache", "dir", cacheDir, "bypass", opts.noCache)
	if opts.outputDir != "" {
		logger.Info("Output directory", "path", opts.outputDir)
	}

	ctx := cmd.Context()

	settings := settingsFromFlags(cmd, opts)
	loadOpts := project.Options{
		Dir:          dir,
		Version:      opts.solcVersion,
		Settings:     settings,
		NoBuild:      opts.noBuild,
		BuildTimeout: buildTimeout,
		Logger:       output.DefaultLogger,
	}

	mode, units, err := project.Load(ctx, loadOpts)
	if err != nil {
		var missing *project.MissingVersionError
		if errors.As(err, &missing) && interactive.IsTerminalInteractive() && !jsonMode {
			version, perr := interactive.InputVersion(interactive.NewPromptuiAdapter())
			if perr != nil {
				return err
			}
			loadOpts.Version = version
			mode, units, err = project.Load(ctx, loadOpts)
		}
		if err != nil {
			return err
		}
	}
	logger.Info("Project detected", "mode", mode, "units", len(units))
	if mode == project.ModeHardhat && len(settings) > 0 {
		output.Warn("Compiler settings flags are ignored for Hardhat projects, configure hardhat.config instead")
	}

	store := cache.NewFileStore(cacheDir, output.DefaultLogger)
	if err := store.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	invoker := solc.NewInvokerWithTimeout(timeout, output.DefaultLogger)
	pipe := compiler.New(store, invoker,
		compiler.WithLogger(logger),
		compiler.WithForce(opts.noCache),
	)

	switch {
	case opts.contract != "":
		return buildSingle(ctx, logger, pipe, units, opts.contract, opts.outputDir)
	case opts.selectContract:
		return buildSelected(ctx, pipe, units, opts.outputDir)
	default:
		return buildProject(ctx, logger, pipe, units, opts.outputDir)
	}
}

// applyBuildConfig merges config.toml values into flags the user did
// not set. Priority: default < config.toml < env < flag.
func applyBuildConfig(cmd *cobra.Command, opts *buildOpts) {
	fileCfg := GetLoadedFileConfig()

	var cfgVersion, cfgOutput, cfgCache, cfgTimeout, cfgBuildTimeout *string
	var cfgNoCache *bool
	if fileCfg != nil {
		cfgVersion = fileCfg.SolcVersion
		cfgOutput = fileCfg.OutputDir
		cfgCache = fileCfg.CacheDir
		cfgTimeout = fileCfg.Timeout
		cfgBuildTimeout = fileCfg.BuildTimeout
		cfgNoCache = fileCfg.NoCache
	}

	var source config.ConfigSource
	opts.solcVersion, source = config.ApplyStringConfig(cmd, "solc-version", opts.solcVersion, cfgVersion)
	opts.solcVersion, _ = config.ApplyEnvString(cmd, "solc-version", opts.solcVersion, os.Getenv("SOLBUILD_SOLC_VERSION"), source)
	opts.outputDir, _ = config.ApplyStringConfig(cmd, "output", opts.outputDir, cfgOutput)
	opts.cacheDir, _ = config.ApplyStringConfig(cmd, "cache-dir", opts.cacheDir, cfgCache)
	opts.timeout, _ = config.ApplyStringConfig(cmd, "timeout", opts.timeout, cfgTimeout)
	opts.buildTimeout, _ = config.ApplyStringConfig(cmd, "build-timeout", opts.buildTimeout, cfgBuildTimeout)
	opts.noCache, source = config.ApplyBoolConfig(cmd, "no-cache", opts.noCache, cfgNoCache)
	opts.noCache, _ = config.ApplyEnvBool(cmd, "no-cache", opts.noCache, os.Getenv("SOLBUILD_NO_CACHE") != "", source)
}

// settingsFromFlags assembles compiler settings from the optimizer and
// EVM flags. Only flags the user actually set are included, so
// framework profiles keep their own defaults.
func settingsFromFlags(cmd *cobra.Command, opts *buildOpts) solcjson.Settings {
	settings := solcjson.Settings{}

	if cmd.Flags().Changed("optimize") || cmd.Flags().Changed("optimizer-runs") {
		enabled := opts.optimize
		if !cmd.Flags().Changed("optimize") {
			// --optimizer-runs alone implies optimization
			enabled = true
		}
		settings["optimizer"] = map[string]any{
			"enabled": enabled,
			"runs":    opts.optimizerRuns,
		}
	}
	if cmd.Flags().Changed("evm-version") {
		settings["evmVersion"] = opts.evmVersion
	}
	if cmd.Flags().Changed("via-ir") {
		settings["viaIR"] = opts.viaIR
	}

	if len(settings) == 0 {
		return nil
	}
	return settings
}

// buildSingle compiles units until one contains the target contract.
// With several build units the first match wins; not-found errors
// aggregate the available contracts of every unit.
func buildSingle(ctx context.Context, logger log.Logger, pipe *compiler.Pipeline, units []*project.Unit, contract, outputDir string) error {
	var available []string
	for _, unit := range units {
		result, err := pipe.CompileContract(ctx, unitArgs(unit), contract)
		if err != nil {
			var notFound *compiler.ContractNotFoundError
			if errors.As(err, &notFound) && len(units) > 1 {
				available = append(available, notFound.Available...)
				continue
			}
			return err
		}
		logger.Info("Contract built", "contract", result.File+":"+result.Contract, "unit", unit.Name, "cached", result.Cached)
		return emitJSON(outputDir, result.Contract+".json", result)
	}
	return &compiler.ContractNotFoundError{
		Contract:  contract,
		Available: dedupeSorted(available),
	}
}

// buildProject compiles every unit into a full-project bundle. Several
// units produce one bundle per unit, keyed by unit name on stdout or as
// separate files under the output directory.
func buildProject(ctx context.Context, logger log.Logger, pipe *compiler.Pipeline, units []*project.Unit, outputDir string) error {
	if len(units) == 1 {
		result, err := pipe.CompileAll(ctx, unitArgs(units[0]), nil)
		if err != nil {
			return err
		}
		return emitJSON(outputDir, units[0].Name+".json", result)
	}

	bundles := make(map[string]*compiler.ProjectResult, len(units))
	for _, unit := range units {
		logger.Info("Compiling unit", "name", unit.Name)
		result, err := pipe.CompileAll(ctx, unitArgs(unit), nil)
		if err != nil {
			return fmt.Errorf("unit %s: %w", unit.Name, err)
		}
		if outputDir != "" {
			if err := emitJSON(outputDir, unit.Name+".json", result); err != nil {
				return err
			}
			continue
		}
		bundles[unit.Name] = result
	}
	if outputDir == "" {
		return artifacts.WriteTo(os.Stdout, bundles)
	}
	return nil
}

// buildSelected compiles everything, offers the contract list, and
// resolves the picked contract from the cache.
func buildSelected(ctx context.Context, pipe *compiler.Pipeline, units []*project.Unit, outputDir string) error {
	choiceUnits := make(map[interactive.Choice]*project.Unit)
	var choices []interactive.Choice
	for _, unit := range units {
		result, err := pipe.CompileAll(ctx, unitArgs(unit), nil)
		if err != nil {
			return err
		}
		for file, contracts := range result.ABI {
			for name := range contracts {
				choice := interactive.Choice{File: file, Name: name}
				if _, ok := choiceUnits[choice]; !ok {
					choiceUnits[choice] = unit
					choices = append(choices, choice)
				}
			}
		}
	}

	selector := interactive.NewContractSelector(interactive.NewPromptuiAdapter(), output.DefaultLogger)
	choice, err := selector.Select(choices)
	if err != nil {
		return err
	}

	result, err := pipe.CompileContract(ctx, unitArgs(choiceUnits[*choice]), choice.File+":"+choice.Name)
	if err != nil {
		return err
	}
	return emitJSON(outputDir, result.Contract+".json", result)
}

func unitArgs(unit *project.Unit) *compiler.CompilerArgs {
	return &compiler.CompilerArgs{Version: unit.Version, Input: unit.Input}
}

// emitJSON writes the bundle either to a file under the output
// directory or to stdout when no output directory is configured.
func emitJSON(outputDir, filename string, v any) error {
	if outputDir == "" {
		return artifacts.WriteTo(os.Stdout, v)
	}
	path := filepath.Join(outputDir, filename)
	if err := artifacts.WriteJSON(path, v); err != nil {
		return err
	}
	output.Success("Wrote %s", path)
	return nil
}

func displayVersion(version string) string {
	if version == "" {
		return "(from project)"
	}
	return version
}

func dedupeSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
