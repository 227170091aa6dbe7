package solcjson

import (
	"encoding/json"
	"fmt"
)

// Diagnostic severities as emitted by the compiler.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Output is the standard JSON output document of one compilation.
// Contracts and Sources are keyed by source path; contracts are further
// keyed by contract name within each source.
type Output struct {
	Errors    []Diagnostic                   `json:"errors,omitempty"`
	Sources   map[string]SourceRecord        `json:"sources,omitempty"`
	Contracts map[string]map[string]Contract `json:"contracts,omitempty"`
}

// Diagnostic is one compiler message: an error, warning or note.
type Diagnostic struct {
	SourceLocation   *SourceLocation `json:"sourceLocation,omitempty"`
	Type             string          `json:"type,omitempty"`
	Component        string          `json:"component,omitempty"`
	Severity         string          `json:"severity"`
	ErrorCode        string          `json:"errorCode,omitempty"`
	Message          string          `json:"message"`
	FormattedMessage string          `json:"formattedMessage,omitempty"`
}

// SourceLocation points a diagnostic at a byte range in one source file.
type SourceLocation struct {
	File  string `json:"file"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// SourceRecord is the per-source output: the numeric source ID used by
// source maps, the AST, and the original source text which the pipeline
// merges back in so artifact bundles are self-contained.
type SourceRecord struct {
	ID        int             `json:"id"`
	AST       json.RawMessage `json:"ast,omitempty"`
	LegacyAST json.RawMessage `json:"legacyAST,omitempty"`
	Source    string          `json:"source,omitempty"`
}

// Contract is the per-contract output slice selected by the pipeline's
// output selection.
type Contract struct {
	ABI json.RawMessage `json:"abi,omitempty"`
	EVM EVM             `json:"evm,omitempty"`
}

// EVM groups the EVM-level contract outputs.
type EVM struct {
	Bytecode         Bytecode         `json:"bytecode,omitempty"`
	DeployedBytecode DeployedBytecode `json:"deployedBytecode,omitempty"`
}

// Bytecode is the creation bytecode of a contract.
type Bytecode struct {
	Object         string          `json:"object,omitempty"`
	LinkReferences json.RawMessage `json:"linkReferences,omitempty"`
}

// DeployedBytecode is the runtime bytecode of a contract together with
// the source map that ties instruction offsets back to source ranges.
type DeployedBytecode struct {
	Object         string          `json:"object,omitempty"`
	SourceMap      string          `json:"sourceMap,omitempty"`
	LinkReferences json.RawMessage `json:"linkReferences,omitempty"`
}

// ParseOutput decodes a standard JSON output document.
func ParseOutput(data []byte) (*Output, error) {
	var out Output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse compiler output: %w", err)
	}
	return &out, nil
}

// FatalDiagnostics returns the diagnostics with error severity.
// Warnings and notes never fail a compilation.
func (o *Output) FatalDiagnostics() []Diagnostic {
	var fatal []Diagnostic
	for _, d := range o.Errors {
		if d.Severity == SeverityError {
			fatal = append(fatal, d)
		}
	}
	return fatal
}

// Format renders a diagnostic for display, preferring the compiler's
// formatted message when present.
func (d Diagnostic) Format() string {
	if d.FormattedMessage != "" {
		return d.FormattedMessage
	}
	if d.SourceLocation != nil {
		return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.SourceLocation.File)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}
