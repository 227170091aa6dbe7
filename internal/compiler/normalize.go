package compiler

import (
	"encoding/json"

	"github.com/altuslabsxyz/solbuild/internal/artifacts"
	"github.com/altuslabsxyz/solbuild/internal/invariants"
	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// buildContractResult normalizes the output into a single-contract
// bundle.
func (p *Pipeline) buildContractResult(args *CompilerArgs, info *runInfo, out *solcjson.Output, contract string) (*ContractResult, error) {
	file, name, c, err := findContract(out, contract)
	if err != nil {
		return nil, err
	}

	sources := mergeSources(out, args.Input)
	astArtifact, invs := p.analyze(out)
	p.checkBytecode(file, name, c)

	result := &ContractResult{
		Contract:        name,
		File:            file,
		AST:             astArtifact,
		SourceMap:       c.EVM.DeployedBytecode.SourceMap,
		Sources:         sources,
		Bytecode:        c.EVM.Bytecode.Object,
		RuntimeBytecode: c.EVM.DeployedBytecode.Object,
		ABI:             c.ABI,
		ABISummary:      p.summarize(file, name, c.ABI),
		Invariants:      filterInvariants(invs, Filter{file: {name}}),
		CompilerArgs:    args,
		CacheKey:        info.key,
		Cached:          info.cached,
	}
	return result, nil
}

// buildProjectResult normalizes the output into a full-compilation
// bundle, restricted to the contracts the filter matches.
func (p *Pipeline) buildProjectResult(args *CompilerArgs, info *runInfo, out *solcjson.Output, filter Filter) (*ProjectResult, error) {
	p.checkFilter(out, filter)

	sources := mergeSources(out, args.Input)
	astArtifact, invs := p.analyze(out)

	result := &ProjectResult{
		AST:             astArtifact,
		SourceMap:       make(map[string]map[string]string),
		Sources:         sources,
		Bytecode:        make(map[string]map[string]string),
		RuntimeBytecode: make(map[string]map[string]string),
		ABI:             make(map[string]map[string]json.RawMessage),
		CompilerArgs:    args,
		CacheKey:        info.key,
		Cached:          info.cached,
	}

	summaries := make(map[string]map[string]*artifacts.Summary)
	for file, contracts := range out.Contracts {
		for name, c := range contracts {
			if !filter.Match(file, name) {
				continue
			}
			p.checkBytecode(file, name, c)

			putMatrix(result.Bytecode, file, name, c.EVM.Bytecode.Object)
			putMatrix(result.RuntimeBytecode, file, name, c.EVM.DeployedBytecode.Object)
			putMatrix(result.SourceMap, file, name, c.EVM.DeployedBytecode.SourceMap)
			putMatrix(result.ABI, file, name, c.ABI)
			if summary := p.summarize(file, name, c.ABI); summary != nil {
				putMatrix(summaries, file, name, summary)
			}
		}
	}
	if len(summaries) > 0 {
		result.ABISummaries = summaries
	}
	result.Invariants = filterInvariants(invs, filter)
	return result, nil
}

// analyze builds the AST artifact and invariants for an output. Both
// stages degrade: a failed analysis leaves the raw ASTs in the artifact
// and simply drops the index and invariants.
func (p *Pipeline) analyze(out *solcjson.Output) (*ASTArtifact, []invariants.Invariant) {
	artifact := &ASTArtifact{Raw: collectRawASTs(out)}

	index, err := p.analyzer.Analyze(out)
	if err != nil {
		p.logger.Warn("AST analysis failed, artifact keeps the raw AST", "error", err)
		return artifact, nil
	}
	artifact.Index = index.Describe()

	invs, err := p.extractor.Extract(index)
	if err != nil {
		p.logger.Warn("Invariant extraction failed", "error", err)
		return artifact, nil
	}
	return artifact, invs
}

// summarize derives the typed ABI summary, degrading to nil on
// unparseable ABIs.
func (p *Pipeline) summarize(file, name string, rawABI json.RawMessage) *artifacts.Summary {
	summary, err := artifacts.Summarize(rawABI)
	if err != nil {
		p.logger.Warn("Failed to summarize ABI", "contract", file+":"+name, "error", err)
		return nil
	}
	if summary.MethodIdentifiers == nil && summary.EventTopics == nil {
		return nil
	}
	return summary
}

// checkBytecode warns about malformed bytecode objects without failing
// the bundle.
func (p *Pipeline) checkBytecode(file, name string, c solcjson.Contract) {
	if err := artifacts.ValidateBytecode(c.EVM.Bytecode.Object); err != nil {
		p.logger.Warn("Suspect creation bytecode", "contract", file+":"+name, "error", err)
	}
	if err := artifacts.ValidateBytecode(c.EVM.DeployedBytecode.Object); err != nil {
		p.logger.Warn("Suspect runtime bytecode", "contract", file+":"+name, "error", err)
	}
}

// checkFilter warns about filter entries that match nothing in the
// output, which usually means a typoed path or contract name.
func (p *Pipeline) checkFilter(out *solcjson.Output, filter Filter) {
	for file, names := range filter {
		contracts, ok := out.Contracts[file]
		if !ok {
			p.logger.Warn("Filter file not present in compilation output", "file", file)
			continue
		}
		for _, name := range names {
			if _, ok := contracts[name]; !ok {
				p.logger.Warn("Filter contract not present in compilation output", "contract", file+":"+name)
			}
		}
	}
}

// mergeSources joins the output's source records with the input's
// source text so bundles are self-contained. The output document itself
// is left untouched.
func mergeSources(out *solcjson.Output, in *solcjson.Input) map[string]solcjson.SourceRecord {
	merged := make(map[string]solcjson.SourceRecord, len(in.Sources))
	for path, record := range out.Sources {
		merged[path] = record
	}
	for path, src := range in.Sources {
		record := merged[path]
		record.Source = src.Content
		merged[path] = record
	}
	return merged
}

// collectRawASTs gathers the per-file AST documents.
func collectRawASTs(out *solcjson.Output) map[string]json.RawMessage {
	raw := make(map[string]json.RawMessage)
	for path, record := range out.Sources {
		if len(record.AST) > 0 {
			raw[path] = record.AST
		}
	}
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// filterInvariants keeps the invariants of filtered-in contracts.
func filterInvariants(invs []invariants.Invariant, filter Filter) []invariants.Invariant {
	if filter == nil {
		return invs
	}
	var kept []invariants.Invariant
	for _, inv := range invs {
		if filter.Match(inv.File, inv.Contract) {
			kept = append(kept, inv)
		}
	}
	return kept
}

// putMatrix inserts a value into a file-keyed, contract-keyed matrix.
func putMatrix[T any](matrix map[string]map[string]T, file, name string, value T) {
	if matrix[file] == nil {
		matrix[file] = make(map[string]T)
	}
	matrix[file][name] = value
}
