package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/solbuild/internal/config"
)

// NewConfigShowCmd creates the config show subcommand.
func NewConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		Long: `Display the current effective configuration with sources.

Shows all configuration values and where they came from:
  - default: Built-in default value
  - config.toml: Value from config file
  - environment: Value from environment variable
  - flag: Value from command-line flag

Examples:
  # Show current configuration
  solbuild config show

  # Show configuration as JSON
  solbuild config show --json`,
		RunE: runConfigShow,
	}

	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := buildEffectiveConfig(cmd)

	if jsonMode {
		return outputConfigShowJSON(cfg)
	}

	cfg.ToTable(os.Stdout)

	if cfg.ConfigFilePath != "" {
		fmt.Printf("\nConfig file: %s\n", cfg.ConfigFilePath)
	} else {
		fmt.Println("\nNo config file loaded")
	}

	return nil
}

// outputConfigShowJSON outputs the effective configuration as JSON.
func outputConfigShowJSON(cfg *config.EffectiveConfig) error {
	result := map[string]interface{}{
		"home":          cfg.Home.Value,
		"verbose":       cfg.Verbose.Value,
		"json":          cfg.JSON.Value,
		"no_color":      cfg.NoColor.Value,
		"solc_version":  cfg.SolcVersion.Value,
		"timeout":       cfg.Timeout.Value,
		"build_timeout": cfg.BuildTimeout.Value,
		"output_dir":    cfg.OutputDir.Value,
		"cache_dir":     cfg.EffectiveCacheDir(),
		"no_cache":      cfg.NoCache.Value,
		"config_file":   cfg.ConfigFilePath,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

// buildEffectiveConfig builds the effective configuration with source tracking.
func buildEffectiveConfig(cmd *cobra.Command) *config.EffectiveConfig {
	cfg := config.NewEffectiveConfig(config.DefaultHomeDir())
	fileCfg := GetLoadedFileConfig()

	// Track config file path
	loader := config.NewConfigLoader(homeDir, configPath, nil)
	_, configFilePath, _ := loader.LoadFileConfig()
	cfg.ConfigFilePath = configFilePath

	// Apply values and track sources
	// Home
	cfg.Home = config.StringValue{Value: homeDir, Source: config.SourceDefault}
	if fileCfg != nil && fileCfg.Home != nil {
		cfg.Home = config.StringValue{Value: *fileCfg.Home, Source: config.SourceConfigFile}
	}
	if envHome := os.Getenv("SOLBUILD_HOME"); envHome != "" {
		cfg.Home = config.StringValue{Value: envHome, Source: config.SourceEnvironment}
	}
	if cmd.Flags().Changed("home") {
		cfg.Home = config.StringValue{Value: homeDir, Source: config.SourceFlag}
	}

	// Verbose
	cfg.Verbose = config.BoolValue{Value: verbose, Source: config.SourceDefault}
	if fileCfg != nil && fileCfg.Verbose != nil {
		cfg.Verbose = config.BoolValue{Value: *fileCfg.Verbose, Source: config.SourceConfigFile}
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = config.BoolValue{Value: verbose, Source: config.SourceFlag}
	}

	// JSON
	cfg.JSON = config.BoolValue{Value: jsonMode, Source: config.SourceDefault}
	if fileCfg != nil && fileCfg.JSON != nil {
		cfg.JSON = config.BoolValue{Value: *fileCfg.JSON, Source: config.SourceConfigFile}
	}
	if cmd.Flags().Changed("json") {
		cfg.JSON = config.BoolValue{Value: jsonMode, Source: config.SourceFlag}
	}

	// NoColor
	cfg.NoColor = config.BoolValue{Value: noColor, Source: config.SourceDefault}
	if fileCfg != nil && fileCfg.NoColor != nil {
		cfg.NoColor = config.BoolValue{Value: *fileCfg.NoColor, Source: config.SourceConfigFile}
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = config.BoolValue{Value: true, Source: config.SourceEnvironment}
	}
	if cmd.Flags().Changed("no-color") {
		cfg.NoColor = config.BoolValue{Value: noColor, Source: config.SourceFlag}
	}

	// SolcVersion
	if fileCfg != nil && fileCfg.SolcVersion != nil {
		cfg.SolcVersion = config.StringValue{Value: *fileCfg.SolcVersion, Source: config.SourceConfigFile}
	}
	if envVersion := os.Getenv("SOLBUILD_SOLC_VERSION"); envVersion != "" {
		cfg.SolcVersion = config.StringValue{Value: envVersion, Source: config.SourceEnvironment}
	}

	// Timeout
	if fileCfg != nil && fileCfg.Timeout != nil {
		cfg.Timeout = config.StringValue{Value: *fileCfg.Timeout, Source: config.SourceConfigFile}
	}

	// BuildTimeout
	if fileCfg != nil && fileCfg.BuildTimeout != nil {
		cfg.BuildTimeout = config.StringValue{Value: *fileCfg.BuildTimeout, Source: config.SourceConfigFile}
	}

	// OutputDir
	if fileCfg != nil && fileCfg.OutputDir != nil {
		cfg.OutputDir = config.StringValue{Value: *fileCfg.OutputDir, Source: config.SourceConfigFile}
	}

	// CacheDir
	if fileCfg != nil && fileCfg.CacheDir != nil {
		cfg.CacheDir = config.StringValue{Value: *fileCfg.CacheDir, Source: config.SourceConfigFile}
	}

	// NoCache
	if fileCfg != nil && fileCfg.NoCache != nil {
		cfg.NoCache = config.BoolValue{Value: *fileCfg.NoCache, Source: config.SourceConfigFile}
	}
	if os.Getenv("SOLBUILD_NO_CACHE") != "" {
		cfg.NoCache = config.BoolValue{Value: true, Source: config.SourceEnvironment}
	}

	return cfg
}
