package config

// FileConfig represents the raw config.toml file contents.
// All fields are pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	// Global settings
	Home    *string `toml:"home"`
	NoColor *bool   `toml:"no_color"`
	Verbose *bool   `toml:"verbose"`
	JSON    *bool   `toml:"json"`

	// Build settings
	SolcVersion  *string `toml:"solc_version"`  // Fallback version when the project pins none
	Timeout      *string `toml:"timeout"`       // Per solc invocation (duration string)
	BuildTimeout *string `toml:"build_timeout"` // Upstream framework build (duration string)
	OutputDir    *string `toml:"output_dir"`    // Artifact directory; empty writes to stdout

	// Cache settings
	CacheDir *string `toml:"cache_dir"`
	NoCache  *bool   `toml:"no_cache"` // Recompile even on cache hits
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.Home == nil &&
		f.NoColor == nil &&
		f.Verbose == nil &&
		f.JSON == nil &&
		f.SolcVersion == nil &&
		f.Timeout == nil &&
		f.BuildTimeout == nil &&
		f.OutputDir == nil &&
		f.CacheDir == nil &&
		f.NoCache == nil
}
