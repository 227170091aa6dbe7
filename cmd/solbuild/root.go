package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/solbuild/internal/config"
	"github.com/altuslabsxyz/solbuild/internal/output"
)

// Global configuration variables
var (
	homeDir    string
	jsonMode   bool
	noColor    bool
	verbose    bool
	configPath string // Path to config.toml file (--config flag)

	// loadedFileConfig holds the parsed config.toml values (nil if no config file)
	loadedFileConfig *config.FileConfig
)

// Command group IDs for organized help output.
const (
	GroupMain     = "main"
	GroupAdvanced = "advanced"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solbuild",
		Short: "Compile Solidity projects into reproducible artifact bundles",
		Long: `solbuild compiles Solidity projects with a version-pinned solc and
normalizes the compiler output into artifact bundles.

It detects the project layout (Hardhat, Foundry, or a bare folder of
.sol files), assembles a standard-JSON compiler input, deduplicates
identical compilations through a content-addressed cache, and extracts
per-contract artifacts: ABI, bytecode, source maps, ASTs, and mined
invariants.

Examples:
  # Build every contract of the project in the current directory
  solbuild build

  # Build a single contract by name
  solbuild build --contract Counter

  # Build a bare folder with an explicit compiler version
  solbuild build ./contracts --solc-version 0.8.20

  # Inspect the compilation cache
  solbuild cache list`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load config file
			loader := config.NewConfigLoader(homeDir, configPath, output.DefaultLogger)
			fileCfg, configFilePath, err := loader.LoadFileConfig()
			if err != nil {
				return err
			}
			loadedFileConfig = fileCfg

			// Apply config file values to global flags (if not explicitly set)
			// Priority: default < config.toml < env < flag

			if !cmd.Flags().Changed("home") && fileCfg.Home != nil {
				homeDir = *fileCfg.Home
			}
			if !cmd.Flags().Changed("verbose") && fileCfg.Verbose != nil {
				verbose = *fileCfg.Verbose
			}
			if !cmd.Flags().Changed("json") && fileCfg.JSON != nil {
				jsonMode = *fileCfg.JSON
			}
			if !cmd.Flags().Changed("no-color") && fileCfg.NoColor != nil {
				noColor = *fileCfg.NoColor
			}

			// Environment variables override config.toml (but not explicit flags)
			if envHome := os.Getenv("SOLBUILD_HOME"); envHome != "" && !cmd.Flags().Changed("home") {
				homeDir = envHome
			}
			if os.Getenv("NO_COLOR") != "" && !cmd.Flags().Changed("no-color") {
				noColor = true
			}

			// Log which config file was loaded (if verbose)
			if configFilePath != "" && verbose {
				output.DefaultLogger.Debug("Using config file: %s", configFilePath)
			}

			// Apply global configuration to logger
			output.DefaultLogger.SetNoColor(noColor)
			output.DefaultLogger.SetVerbose(verbose)
			output.DefaultLogger.SetJSONMode(jsonMode)

			return nil
		},
	}

	// Global flags available on all commands
	cmd.PersistentFlags().StringVarP(&homeDir, "home", "H", config.DefaultHomeDir(),
		"Base directory for solbuild data")
	cmd.PersistentFlags().BoolVar(&jsonMode, "json", false,
		"Output in JSON format")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.toml file")

	// Define command groups for organized help output
	cmd.AddGroup(&cobra.Group{ID: GroupMain, Title: "Main Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupAdvanced, Title: "Advanced Commands:"})

	// Main commands
	buildCmd := NewBuildCmd()
	buildCmd.GroupID = GroupMain

	// Advanced commands
	cacheCmd := NewCacheCmd()
	cacheCmd.GroupID = GroupAdvanced
	solcCmd := NewSolcCmd()
	solcCmd.GroupID = GroupAdvanced
	configCmd := NewConfigCmd()
	configCmd.GroupID = GroupAdvanced

	// Utility commands (no group - shown separately)
	versionCmd := NewVersionCmd()
	completionCmd := NewCompletionCmd()

	cmd.AddCommand(
		buildCmd,
		cacheCmd,
		solcCmd,
		configCmd,
		versionCmd,
		completionCmd,
	)

	return cmd
}

// GetLoadedFileConfig returns the loaded config.toml values.
// Returns nil if no config file was loaded.
func GetLoadedFileConfig() *config.FileConfig {
	return loadedFileConfig
}

// confirmPrompt is a helper function for confirmation prompts.
func confirmPrompt(message string) (bool, error) {
	return output.ConfirmPrompt(message)
}
