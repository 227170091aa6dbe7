package solc

import (
	"regexp"
	"strings"
)

// versionRegex extracts a bare X.Y.Z release from the version strings
// that appear in the wild: "0.8.17", "v0.8.17", "0.8.17+commit.8df45f5f"
// and Hardhat long versions like "0.8.17+commit.8df45f5f.Emscripten.clang".
var versionRegex = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ExtractVersion returns the bare semantic version contained in raw, or
// false when raw carries no recognizable version. solc-select only
// accepts bare versions, so commit suffixes and prefixes are dropped.
func ExtractVersion(raw string) (string, bool) {
	match := versionRegex.FindString(raw)
	if match == "" {
		return "", false
	}
	return match, true
}

// solcVersionRegex parses the version line of `solc --version` output:
//
//	Version: 0.8.17+commit.8df45f5f.Linux.g++
var solcVersionRegex = regexp.MustCompile(`(?i)version:\s*(\d+\.\d+\.\d+[^\s]*)`)

// ParseSolcVersion extracts the full version from `solc --version` output.
func ParseSolcVersion(output string) (string, bool) {
	matches := solcVersionRegex.FindStringSubmatch(output)
	if len(matches) < 2 {
		return "", false
	}
	return strings.TrimSpace(matches[1]), true
}
