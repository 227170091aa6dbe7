package compiler

import (
	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// mandatorySelection lists the compiler outputs the pipeline always
// requests: the ASTs for analysis, and the ABI, bytecodes and source
// map that artifact bundles are built from. The empty contract key
// selects file-level outputs.
var mandatorySelection = map[string]map[string][]string{
	"*": {
		"*": {
			"legacyAST",
			"ast",
			"evm.deployedBytecode.sourceMap",
			"evm.bytecode",
			"evm.deployedBytecode",
			"abi",
		},
		"": {
			"ast",
			"legacyAST",
		},
	},
}

// EnsureOutputSelection merges the mandatory output selection into the
// caller's settings and returns them. Caller-provided selections are
// preserved: merging is a set union per file and contract key, keeps
// the caller's ordering, and is idempotent. The merge runs before the
// input is hashed, so the cache key always covers the selection the
// compiler actually saw.
func EnsureOutputSelection(settings solcjson.Settings) solcjson.Settings {
	if settings == nil {
		settings = solcjson.Settings{}
	}

	selection := normalizeSelection(settings["outputSelection"])
	for fileGlob, contracts := range mandatorySelection {
		if selection[fileGlob] == nil {
			selection[fileGlob] = make(map[string][]string, len(contracts))
		}
		for contractGlob, outputs := range contracts {
			selection[fileGlob][contractGlob] = unionPreserving(selection[fileGlob][contractGlob], outputs)
		}
	}
	settings["outputSelection"] = selection
	return settings
}

// normalizeSelection coerces an outputSelection value into its typed
// shape. JSON and TOML decode nested maps as map[string]any, so both
// the decoded and the programmatic forms must be accepted; anything
// unrecognizable is dropped and replaced by the mandatory selection.
func normalizeSelection(raw any) map[string]map[string][]string {
	selection := make(map[string]map[string][]string)
	switch v := raw.(type) {
	case nil:
	case map[string]map[string][]string:
		for fileGlob, contracts := range v {
			selection[fileGlob] = make(map[string][]string, len(contracts))
			for contractGlob, outputs := range contracts {
				selection[fileGlob][contractGlob] = append([]string(nil), outputs...)
			}
		}
	case map[string]any:
		for fileGlob, contractsRaw := range v {
			contracts, ok := contractsRaw.(map[string]any)
			if !ok {
				continue
			}
			selection[fileGlob] = make(map[string][]string, len(contracts))
			for contractGlob, outputsRaw := range contracts {
				selection[fileGlob][contractGlob] = toStringSlice(outputsRaw)
			}
		}
	}
	return selection
}

// unionPreserving appends the missing required entries to existing,
// keeping existing order.
func unionPreserving(existing, required []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e] = true
	}
	merged := existing
	for _, r := range required {
		if !seen[r] {
			merged = append(merged, r)
			seen[r] = true
		}
	}
	return merged
}

func toStringSlice(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
