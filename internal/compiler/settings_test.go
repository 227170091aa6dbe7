package compiler

import (
	"testing"

	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

func selectionOf(t *testing.T, settings solcjson.Settings) map[string]map[string][]string {
	t.Helper()
	selection, ok := settings["outputSelection"].(map[string]map[string][]string)
	if !ok {
		t.Fatalf("outputSelection has unexpected type %T", settings["outputSelection"])
	}
	return selection
}

func contains(list []string, want string) bool {
	for _, e := range list {
		if e == want {
			return true
		}
	}
	return false
}

func TestEnsureOutputSelectionNilSettings(t *testing.T) {
	settings := EnsureOutputSelection(nil)

	selection := selectionOf(t, settings)
	outputs := selection["*"]["*"]
	for _, want := range []string{"abi", "ast", "evm.bytecode", "evm.deployedBytecode", "evm.deployedBytecode.sourceMap"} {
		if !contains(outputs, want) {
			t.Errorf("mandatory output %s missing from %v", want, outputs)
		}
	}
	if !contains(selection["*"][""], "ast") {
		t.Errorf("file-level ast selection missing: %v", selection["*"][""])
	}
}

func TestEnsureOutputSelectionIdempotent(t *testing.T) {
	once := EnsureOutputSelection(nil)
	onceOutputs := append([]string(nil), selectionOf(t, once)["*"]["*"]...)

	twice := EnsureOutputSelection(once)
	twiceOutputs := selectionOf(t, twice)["*"]["*"]

	if len(onceOutputs) != len(twiceOutputs) {
		t.Fatalf("second merge changed the selection: %v vs %v", onceOutputs, twiceOutputs)
	}
	for i := range onceOutputs {
		if onceOutputs[i] != twiceOutputs[i] {
			t.Errorf("output %d changed: %s vs %s", i, onceOutputs[i], twiceOutputs[i])
		}
	}
}

func TestEnsureOutputSelectionPreservesCallerEntries(t *testing.T) {
	settings := solcjson.Settings{
		"evmVersion": "paris",
		"outputSelection": map[string]map[string][]string{
			"*": {
				"*": {"metadata", "abi"},
			},
			"a.sol": {
				"A": {"storageLayout"},
			},
		},
	}

	merged := EnsureOutputSelection(settings)
	selection := selectionOf(t, merged)

	// Caller entries survive, caller ordering first.
	star := selection["*"]["*"]
	if star[0] != "metadata" || star[1] != "abi" {
		t.Errorf("caller ordering not preserved: %v", star)
	}
	if !contains(star, "evm.bytecode") {
		t.Errorf("mandatory outputs not merged: %v", star)
	}
	if !contains(selection["a.sol"]["A"], "storageLayout") {
		t.Errorf("per-file selection lost: %v", selection["a.sol"])
	}

	// abi appears once even though the caller listed it too.
	count := 0
	for _, e := range star {
		if e == "abi" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("abi duplicated: %v", star)
	}

	// Unrelated settings untouched.
	if merged["evmVersion"] != "paris" {
		t.Error("unrelated settings must not change")
	}
}

func TestEnsureOutputSelectionDecodedForm(t *testing.T) {
	// outputSelection as it arrives from a decoded JSON document.
	settings := solcjson.Settings{
		"outputSelection": map[string]any{
			"*": map[string]any{
				"*": []any{"metadata"},
			},
			"broken": "not a map",
		},
	}

	merged := EnsureOutputSelection(settings)
	selection := selectionOf(t, merged)

	star := selection["*"]["*"]
	if star[0] != "metadata" {
		t.Errorf("decoded caller entry lost: %v", star)
	}
	if !contains(star, "abi") {
		t.Errorf("mandatory outputs not merged: %v", star)
	}
	if _, ok := selection["broken"]; ok {
		t.Error("unparseable file entry should be dropped")
	}
}
