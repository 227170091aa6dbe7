// Package invariants mines contract-level safety conditions out of the
// analyzed AST: constant and immutable state, modifier guards, and the
// require/assert conditions guarding function bodies. The result is a
// best-effort artifact for auditing and downstream tooling, never an
// input to compilation.
package invariants

import (
	"cosmossdk.io/log"

	"github.com/altuslabsxyz/solbuild/internal/ast"
)

// Invariant kinds.
const (
	KindConstantState  = "constant-state"
	KindImmutableState = "immutable-state"
	KindModifierGuard  = "modifier-guard"
	KindRequire        = "require"
	KindAssert         = "assert"
)

// Invariant is one extracted condition.
type Invariant struct {
	Contract    string `json:"contract"`
	File        string `json:"file"`
	Kind        string `json:"kind"`
	Target      string `json:"target,omitempty"`
	Expression  string `json:"expression,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Extractor walks contract summaries and collects invariants.
type Extractor struct {
	logger log.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(logger log.Logger) *Extractor {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Extractor{logger: logger}
}

// Extract returns the invariants of every contract in the index, in the
// index's deterministic contract order.
func (e *Extractor) Extract(index *ast.Index) ([]Invariant, error) {
	var invariants []Invariant
	for _, contract := range index.Contracts {
		invariants = append(invariants, e.extractContract(contract)...)
	}
	e.logger.Debug("invariant extraction complete",
		"contracts", len(index.Contracts),
		"invariants", len(invariants))
	return invariants, nil
}

func (e *Extractor) extractContract(c *ast.ContractSummary) []Invariant {
	var invs []Invariant

	for _, v := range c.StateVariables {
		kind := stateKind(v)
		if kind == "" {
			continue
		}
		invs = append(invs, Invariant{
			Contract:   c.Name,
			File:       c.Path,
			Kind:       kind,
			Target:     v.Name,
			Expression: renderExpression(v.Get("value")),
			Source:     v.Src,
		})
	}

	for _, m := range c.Modifiers {
		for _, call := range guardCalls(m.Get("body")) {
			invs = append(invs, Invariant{
				Contract:    c.Name,
				File:        c.Path,
				Kind:        KindModifierGuard,
				Target:      m.Name,
				Expression:  call.condition,
				Description: call.message,
				Source:      call.src,
			})
		}
	}

	for _, f := range c.Functions {
		target := functionName(f)
		for _, call := range guardCalls(f.Get("body")) {
			invs = append(invs, Invariant{
				Contract:    c.Name,
				File:        c.Path,
				Kind:        call.kind,
				Target:      target,
				Expression:  call.condition,
				Description: call.message,
				Source:      call.src,
			})
		}
	}
	return invs
}

// stateKind classifies a state variable's mutability, tolerating the
// older boolean constant field.
func stateKind(v *ast.Node) string {
	switch v.String("mutability") {
	case "constant":
		return KindConstantState
	case "immutable":
		return KindImmutableState
	}
	if v.Bool("constant") {
		return KindConstantState
	}
	return ""
}

// functionName names a function for invariant targets; special
// functions have no name and are identified by their kind.
func functionName(f *ast.Node) string {
	if f.Name != "" {
		return f.Name
	}
	if kind := f.String("kind"); kind != "" {
		return kind
	}
	return "function"
}

// guardCall is one require or assert call site.
type guardCall struct {
	kind      string
	condition string
	message   string
	src       string
}

// guardCalls collects the require and assert calls in a body.
func guardCalls(body *ast.Node) []guardCall {
	if body == nil {
		return nil
	}
	var calls []guardCall
	body.Walk(func(n *ast.Node) bool {
		if n.NodeType != "FunctionCall" {
			return true
		}
		callee := n.Get("expression")
		if callee == nil || callee.NodeType != "Identifier" {
			return true
		}

		var kind string
		switch callee.Name {
		case "require":
			kind = KindRequire
		case "assert":
			kind = KindAssert
		default:
			return true
		}

		args := n.List("arguments")
		if len(args) == 0 {
			return true
		}
		call := guardCall{
			kind:      kind,
			condition: renderExpression(args[0]),
			src:       n.Src,
		}
		if len(args) > 1 && args[1].NodeType == "Literal" {
			call.message = args[1].String("value")
		}
		calls = append(calls, call)
		return true
	})
	return calls
}
