package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigWriter handles writing configuration to homeDir/config.toml.
type ConfigWriter struct {
	homeDir string
}

// NewConfigWriter creates a ConfigWriter for the given home directory.
func NewConfigWriter(homeDir string) *ConfigWriter {
	return &ConfigWriter{
		homeDir: homeDir,
	}
}

// Path returns the full path to config.toml in homeDir.
func (w *ConfigWriter) Path() string {
	return filepath.Join(w.homeDir, "config.toml")
}

// Exists returns true if config.toml already exists in homeDir.
func (w *ConfigWriter) Exists() bool {
	_, err := os.Stat(w.Path())
	return err == nil
}

// Write saves the FileConfig to homeDir/config.toml, creating homeDir
// if needed.
func (w *ConfigWriter) Write(cfg *FileConfig) error {
	if err := os.MkdirAll(w.homeDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.homeDir, err)
	}

	content := w.generateTOMLWithComments(cfg)
	if err := os.WriteFile(w.Path(), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateTOMLWithComments creates TOML content with section comments.
// Unset keys are emitted commented out with their defaults so the file
// doubles as documentation.
func (w *ConfigWriter) generateTOMLWithComments(cfg *FileConfig) string {
	var content string

	content += "# solbuild configuration file\n"
	content += "# Priority: default < config.toml < environment < CLI flag\n"
	content += "#\n"
	content += fmt.Sprintf("# Location: %s\n", w.Path())
	content += "# Override with: --config /path/to/config.toml\n"
	content += "\n"

	content += "# =============================================================================\n"
	content += "# Global Settings (apply to all commands)\n"
	content += "# =============================================================================\n\n"

	if cfg.Home != nil {
		content += fmt.Sprintf("home = %q\n", *cfg.Home)
	} else {
		content += "# home = \"~/.solbuild\"\n"
	}
	if cfg.Verbose != nil && *cfg.Verbose {
		content += "verbose = true\n"
	} else {
		content += "# verbose = false\n"
	}
	if cfg.JSON != nil && *cfg.JSON {
		content += "json = true\n"
	} else {
		content += "# json = false\n"
	}
	if cfg.NoColor != nil && *cfg.NoColor {
		content += "no_color = true\n"
	} else {
		content += "# no_color = false\n"
	}
	content += "\n"

	content += "# =============================================================================\n"
	content += "# Build Settings\n"
	content += "# =============================================================================\n\n"

	if cfg.SolcVersion != nil {
		content += fmt.Sprintf("solc_version = %q\n", *cfg.SolcVersion)
	} else {
		content += "# solc_version = \"0.8.19\"\n"
	}
	if cfg.Timeout != nil {
		content += fmt.Sprintf("timeout = %q\n", *cfg.Timeout)
	} else {
		content += "# timeout = \"10m\"\n"
	}
	if cfg.BuildTimeout != nil {
		content += fmt.Sprintf("build_timeout = %q\n", *cfg.BuildTimeout)
	} else {
		content += "# build_timeout = \"15m\"\n"
	}
	if cfg.OutputDir != nil {
		content += fmt.Sprintf("output_dir = %q\n", *cfg.OutputDir)
	} else {
		content += "# output_dir = \"\"\n"
	}
	content += "\n"

	content += "# =============================================================================\n"
	content += "# Cache Settings\n"
	content += "# =============================================================================\n\n"

	if cfg.CacheDir != nil {
		content += fmt.Sprintf("cache_dir = %q\n", *cfg.CacheDir)
	} else {
		content += "# cache_dir = \"~/.solbuild/cache/compile\"\n"
	}
	if cfg.NoCache != nil && *cfg.NoCache {
		content += "no_cache = true\n"
	} else {
		content += "# no_cache = false\n"
	}

	return content
}
