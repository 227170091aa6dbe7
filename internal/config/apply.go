package config

import "github.com/spf13/cobra"

// ApplyStringConfig applies a config file string value if the flag was
// not explicitly set. Returns the effective value and its source.
func ApplyStringConfig(cmd *cobra.Command, flagName string, currentValue string, configValue *string) (string, ConfigSource) {
	if cmd.Flags().Changed(flagName) {
		return currentValue, SourceFlag
	}
	if configValue != nil {
		return *configValue, SourceConfigFile
	}
	return currentValue, SourceDefault
}

// ApplyBoolConfig applies a config file bool value if the flag was not
// explicitly set. Keeping the flag check first prevents a default false
// from masking a config true.
func ApplyBoolConfig(cmd *cobra.Command, flagName string, currentValue bool, configValue *bool) (bool, ConfigSource) {
	if cmd.Flags().Changed(flagName) {
		return currentValue, SourceFlag
	}
	if configValue != nil {
		return *configValue, SourceConfigFile
	}
	return currentValue, SourceDefault
}

// ApplyEnvString applies an environment variable if set and the flag
// was not changed. Priority: config.toml < environment < flag.
func ApplyEnvString(cmd *cobra.Command, flagName string, currentValue string, envValue string, currentSource ConfigSource) (string, ConfigSource) {
	if cmd.Flags().Changed(flagName) {
		return currentValue, SourceFlag
	}
	if envValue != "" {
		return envValue, SourceEnvironment
	}
	return currentValue, currentSource
}

// ApplyEnvBool applies a set environment variable as true if the flag
// was not changed.
func ApplyEnvBool(cmd *cobra.Command, flagName string, currentValue bool, envSet bool, currentSource ConfigSource) (bool, ConfigSource) {
	if cmd.Flags().Changed(flagName) {
		return currentValue, SourceFlag
	}
	if envSet {
		return true, SourceEnvironment
	}
	return currentValue, currentSource
}
