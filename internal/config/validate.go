package config

import (
	"fmt"
	"time"

	"github.com/altuslabsxyz/solbuild/internal/solc"
)

// ValidateFileConfig checks a merged file config for values that would
// only fail later, deep inside a build.
func ValidateFileConfig(cfg *FileConfig) error {
	if cfg.SolcVersion != nil && *cfg.SolcVersion != "" {
		if _, ok := solc.ExtractVersion(*cfg.SolcVersion); !ok {
			return fmt.Errorf("solc_version %q contains no X.Y.Z version", *cfg.SolcVersion)
		}
	}
	if err := validateDuration("timeout", cfg.Timeout); err != nil {
		return err
	}
	if err := validateDuration("build_timeout", cfg.BuildTimeout); err != nil {
		return err
	}
	return nil
}

func validateDuration(key string, value *string) error {
	if value == nil || *value == "" {
		return nil
	}
	if _, err := time.ParseDuration(*value); err != nil {
		return fmt.Errorf("%s %q is not a duration (use forms like \"90s\" or \"10m\")", key, *value)
	}
	return nil
}
