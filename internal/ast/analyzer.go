package ast

import (
	"fmt"
	"sort"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// Contract kinds as reported by the contractKind AST field.
const (
	KindContract  = "contract"
	KindInterface = "interface"
	KindLibrary   = "library"
)

// Index is the analyzed view of a compilation's ASTs: one source unit
// per file plus a flat, deterministically ordered contract list.
type Index struct {
	Files     map[string]*SourceUnit
	Contracts []*ContractSummary
}

// SourceUnit is the parsed AST root of one source file.
type SourceUnit struct {
	Path string
	ID   int
	Root *Node
}

// ContractSummary describes one contract definition.
type ContractSummary struct {
	Path           string
	Name           string
	Kind           string
	Abstract       bool
	Bases          []string
	StateVariables []*Node
	Functions      []*Node
	Modifiers      []*Node
	Node           *Node
}

// Analyzer builds contract indexes from compiler output.
type Analyzer struct {
	logger log.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(logger log.Logger) *Analyzer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Analyzer{logger: logger}
}

// Analyze parses every source AST in the output and indexes the
// contract definitions found. Files whose AST fails to parse are
// skipped with a warning; Analyze only fails when no file yields a
// usable AST, so old compilers that emit only the legacy AST shape
// degrade instead of breaking the artifact.
func (a *Analyzer) Analyze(out *solcjson.Output) (*Index, error) {
	index := &Index{
		Files: make(map[string]*SourceUnit),
	}

	for path, record := range out.Sources {
		if len(record.AST) == 0 {
			a.logger.Debug("no AST for source, skipping analysis", "file", path)
			continue
		}
		root, err := Parse(record.AST)
		if err != nil {
			a.logger.Warn("failed to parse AST", "file", path, "error", err)
			continue
		}
		if root.NodeType != "SourceUnit" {
			a.logger.Warn("unexpected AST root, skipping analysis", "file", path, "nodeType", root.NodeType)
			continue
		}

		index.Files[path] = &SourceUnit{
			Path: path,
			ID:   record.ID,
			Root: root,
		}
		for _, node := range root.List("nodes") {
			if node.NodeType != "ContractDefinition" {
				continue
			}
			index.Contracts = append(index.Contracts, summarizeContract(path, node))
		}
	}

	if len(index.Files) == 0 {
		return nil, fmt.Errorf("no parseable AST in compiler output")
	}

	sort.Slice(index.Contracts, func(i, j int) bool {
		if index.Contracts[i].Path != index.Contracts[j].Path {
			return index.Contracts[i].Path < index.Contracts[j].Path
		}
		return index.Contracts[i].Name < index.Contracts[j].Name
	})
	return index, nil
}

// summarizeContract extracts the member lists of one contract definition.
func summarizeContract(path string, node *Node) *ContractSummary {
	summary := &ContractSummary{
		Path:     path,
		Name:     node.Name,
		Kind:     node.String("contractKind"),
		Abstract: node.Bool("abstract"),
		Node:     node,
	}
	if summary.Kind == "" {
		summary.Kind = KindContract
	}

	for _, base := range node.List("baseContracts") {
		if baseName := base.Get("baseName"); baseName != nil {
			name := baseName.Name
			if name == "" {
				// Qualified bases use pathNode in newer compilers.
				name = baseName.String("name")
			}
			if name != "" {
				summary.Bases = append(summary.Bases, name)
			}
		}
	}

	for _, member := range node.List("nodes") {
		switch member.NodeType {
		case "VariableDeclaration":
			if member.Bool("stateVariable") {
				summary.StateVariables = append(summary.StateVariables, member)
			}
		case "FunctionDefinition":
			summary.Functions = append(summary.Functions, member)
		case "ModifierDefinition":
			summary.Modifiers = append(summary.Modifiers, member)
		}
	}
	return summary
}

// Contract returns the summary for a named contract in a given file,
// or nil when it isn't part of the index.
func (x *Index) Contract(path, name string) *ContractSummary {
	for _, c := range x.Contracts {
		if c.Path == path && c.Name == name {
			return c
		}
	}
	return nil
}
