package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/solbuild/internal/output"
	"github.com/altuslabsxyz/solbuild/internal/solc"
)

// NewSolcCmd creates the solc command group.
func NewSolcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solc",
		Short: "Manage compiler versions",
		Long: `Manage the Solidity compiler versions available to builds.

Versions are handled through solc-select, which is bootstrapped via
pip3 on first use. Builds pin their version automatically; these
commands exist for pre-installing releases and inspecting the
toolchain.

Examples:
  # List installed compiler releases
  solbuild solc list

  # Download a release without activating it
  solbuild solc install 0.8.20

  # Activate a release (downloads it when missing)
  solbuild solc use 0.8.20`,
	}

	cmd.AddCommand(
		NewSolcListCmd(),
		NewSolcInstallCmd(),
		NewSolcUseCmd(),
	)

	return cmd
}

// SolcListJSON represents the installed compiler list in JSON format.
type SolcListJSON struct {
	Active    string   `json:"active,omitempty"`
	Installed []string `json:"installed"`
}

// NewSolcListCmd creates the solc list command.
func NewSolcListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed compiler releases",
		RunE:  runSolcList,
	}
}

func runSolcList(cmd *cobra.Command, args []string) error {
	invoker := solc.NewInvoker(output.DefaultLogger)
	ctx := cmd.Context()

	versions, err := invoker.InstalledVersions(ctx)
	if err != nil {
		return err
	}

	// The active release is cosmetic here; a missing solc binary is not
	// an error for listing.
	active, err := invoker.CurrentVersion(ctx)
	if err != nil {
		output.Debug("No active solc: %v", err)
		active = ""
	}

	if jsonMode {
		result := SolcListJSON{
			Active:    active,
			Installed: versions,
		}
		if result.Installed == nil {
			result.Installed = []string{}
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(versions) == 0 {
		fmt.Println("No compiler releases installed.")
		fmt.Println()
		fmt.Println("Install one with:")
		fmt.Println("  solbuild solc install <version>")
		return nil
	}

	output.Bold("Installed Compilers")
	for _, v := range versions {
		if v == active {
			fmt.Printf("  %s %s\n", color.GreenString(v), color.GreenString("(active)"))
			continue
		}
		fmt.Printf("  %s\n", v)
	}
	return nil
}

// NewSolcInstallCmd creates the solc install command.
func NewSolcInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <version>",
		Short: "Download a compiler release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invoker := solc.NewInvoker(output.DefaultLogger)
			if err := invoker.Install(cmd.Context(), args[0]); err != nil {
				return err
			}
			output.Success("Installed solc %s", args[0])
			return nil
		},
	}
}

// NewSolcUseCmd creates the solc use command.
func NewSolcUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <version>",
		Short: "Activate a compiler release, downloading it when missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invoker := solc.NewInvoker(output.DefaultLogger)
			if err := invoker.Use(cmd.Context(), args[0]); err != nil {
				return err
			}
			output.Success("Active solc is now %s", args[0])
			return nil
		},
	}
}
