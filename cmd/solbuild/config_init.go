package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/solbuild/internal/config"
	"github.com/altuslabsxyz/solbuild/internal/output"
)

var configInitForce bool

// NewConfigInitCmd creates the config init subcommand.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a config.toml template",
		Long: `Generate a config.toml file with every available option.

Unset options are written commented out with their defaults, so the
file doubles as documentation. The file is placed in the home
directory (--home, default ~/.solbuild).

Examples:
  # Generate the template
  solbuild config init

  # Overwrite an existing config without prompting
  solbuild config init --force`,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite existing config without prompting")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	writer := config.NewConfigWriter(homeDir)

	if writer.Exists() && !configInitForce {
		if jsonMode {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", writer.Path())
		}
		confirmed, err := confirmPrompt(fmt.Sprintf("Config file %s exists, overwrite?", writer.Path()))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	// Seed the template with the currently loaded values so a rerun
	// keeps user settings.
	cfg := GetLoadedFileConfig()
	if cfg == nil {
		cfg = &config.FileConfig{}
	}
	if err := writer.Write(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	output.Success("Created config file: %s", writer.Path())
	output.Info("Edit the file to customize your settings.")
	return nil
}
