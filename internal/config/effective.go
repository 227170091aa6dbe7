package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/altuslabsxyz/solbuild/internal/cache"
)

// DefaultHomeDirName is the tool's home directory under $HOME.
const DefaultHomeDirName = ".solbuild"

// EffectiveConfig is the final merged configuration after applying the
// priority chain: default < config.toml < environment < flag.
type EffectiveConfig struct {
	// Global settings
	Home    StringValue
	NoColor BoolValue
	Verbose BoolValue
	JSON    BoolValue

	// Build settings
	SolcVersion  StringValue
	Timeout      StringValue
	BuildTimeout StringValue
	OutputDir    StringValue

	// Cache settings
	CacheDir StringValue
	NoCache  BoolValue

	// Metadata
	ConfigFilePath string // Path to loaded config file (empty if none)
}

// DefaultHomeDir returns ~/.solbuild, falling back to a relative
// directory when the home directory cannot be resolved.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultHomeDirName
	}
	return filepath.Join(home, DefaultHomeDirName)
}

// NewEffectiveConfig creates an EffectiveConfig with default values.
func NewEffectiveConfig(defaultHomeDir string) *EffectiveConfig {
	return &EffectiveConfig{
		Home:         NewStringValue(defaultHomeDir),
		NoColor:      NewBoolValue(false),
		Verbose:      NewBoolValue(false),
		JSON:         NewBoolValue(false),
		SolcVersion:  NewStringValue(""),
		Timeout:      NewStringValue("10m"),
		BuildTimeout: NewStringValue("15m"),
		OutputDir:    NewStringValue(""),
		CacheDir:     NewStringValue(""),
		NoCache:      NewBoolValue(false),
	}
}

// EffectiveCacheDir resolves the cache directory: the configured one,
// or the default location under the home directory.
func (c *EffectiveConfig) EffectiveCacheDir() string {
	if c.CacheDir.Value != "" {
		return c.CacheDir.Value
	}
	return filepath.Join(c.Home.Value, cache.CacheSubdir)
}

// ToTable writes the configuration as a formatted table.
func (c *EffectiveConfig) ToTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	fmt.Fprintf(tw, "home\t%s\t%s\n", c.Home.Value, c.Home.Source)
	fmt.Fprintf(tw, "no_color\t%t\t%s\n", c.NoColor.Value, c.NoColor.Source)
	fmt.Fprintf(tw, "verbose\t%t\t%s\n", c.Verbose.Value, c.Verbose.Source)
	fmt.Fprintf(tw, "json\t%t\t%s\n", c.JSON.Value, c.JSON.Source)
	fmt.Fprintf(tw, "solc_version\t%s\t%s\n", orUnset(c.SolcVersion.Value), c.SolcVersion.Source)
	fmt.Fprintf(tw, "timeout\t%s\t%s\n", c.Timeout.Value, c.Timeout.Source)
	fmt.Fprintf(tw, "build_timeout\t%s\t%s\n", c.BuildTimeout.Value, c.BuildTimeout.Source)
	fmt.Fprintf(tw, "output_dir\t%s\t%s\n", orUnset(c.OutputDir.Value), c.OutputDir.Source)
	fmt.Fprintf(tw, "cache_dir\t%s\t%s\n", c.EffectiveCacheDir(), c.CacheDir.Source)
	fmt.Fprintf(tw, "no_cache\t%t\t%s\n", c.NoCache.Value, c.NoCache.Source)
	tw.Flush()
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
