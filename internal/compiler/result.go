package compiler

import (
	"encoding/json"

	"github.com/altuslabsxyz/solbuild/internal/artifacts"
	"github.com/altuslabsxyz/solbuild/internal/ast"
	"github.com/altuslabsxyz/solbuild/internal/invariants"
	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// CompilerArgs is one compilation request: the compiler version to pin
// and the standard JSON input to feed it. The same pair is recorded in
// every result so an artifact can always be reproduced byte-for-byte.
type CompilerArgs struct {
	Version string          `json:"version,omitempty"`
	Input   *solcjson.Input `json:"compiler_json"`
}

// ASTArtifact is the AST slice of a result: the raw per-file documents
// as emitted by the compiler, plus the analyzed contract index when
// analysis succeeded. Raw is always present so consumers keep full
// fidelity even when the index degrades to nil.
type ASTArtifact struct {
	Raw   map[string]json.RawMessage `json:"raw,omitempty"`
	Index []ast.ContractDescriptor   `json:"index,omitempty"`
}

// ContractResult is the artifact bundle for a single contract.
type ContractResult struct {
	Contract        string                           `json:"contract"`
	File            string                           `json:"file"`
	AST             *ASTArtifact                     `json:"ast,omitempty"`
	SourceMap       string                           `json:"sourcemap,omitempty"`
	Sources         map[string]solcjson.SourceRecord `json:"sources"`
	Bytecode        string                           `json:"bytecode"`
	RuntimeBytecode string                           `json:"runtime_bytecode"`
	ABI             json.RawMessage                  `json:"abi"`
	ABISummary      *artifacts.Summary               `json:"abi_summary,omitempty"`
	Invariants      []invariants.Invariant           `json:"invariants,omitempty"`
	CompilerArgs    *CompilerArgs                    `json:"compiler_args"`
	CacheKey        string                           `json:"cache_key,omitempty"`
	Cached          bool                             `json:"cached,omitempty"`
}

// ProjectResult is the artifact bundle for a whole compilation: the
// same fields as ContractResult, keyed by source file and contract
// name.
type ProjectResult struct {
	AST             *ASTArtifact                             `json:"ast,omitempty"`
	SourceMap       map[string]map[string]string             `json:"sourcemap,omitempty"`
	Sources         map[string]solcjson.SourceRecord         `json:"sources"`
	Bytecode        map[string]map[string]string             `json:"bytecode"`
	RuntimeBytecode map[string]map[string]string             `json:"runtime_bytecode"`
	ABI             map[string]map[string]json.RawMessage    `json:"abi"`
	ABISummaries    map[string]map[string]*artifacts.Summary `json:"abi_summaries,omitempty"`
	Invariants      []invariants.Invariant                   `json:"invariants,omitempty"`
	CompilerArgs    *CompilerArgs                            `json:"compiler_args"`
	CacheKey        string                                   `json:"cache_key,omitempty"`
	Cached          bool                                     `json:"cached,omitempty"`
}

// Filter restricts which contracts a full compilation includes, keyed
// by source path. A nil Filter includes everything; a file mapped to an
// empty list includes all of that file's contracts; files absent from a
// non-nil Filter are excluded.
type Filter map[string][]string

// Match reports whether the filter includes a contract.
func (f Filter) Match(file, name string) bool {
	if f == nil {
		return true
	}
	names, ok := f[file]
	if !ok {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Contracts returns the matched (file, contract) pairs of an output.
func (f Filter) Contracts(out *solcjson.Output) map[string][]string {
	matched := make(map[string][]string)
	for file, contracts := range out.Contracts {
		for name := range contracts {
			if f.Match(file, name) {
				matched[file] = append(matched[file], name)
			}
		}
	}
	return matched
}
