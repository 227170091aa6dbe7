package compiler

import (
	"fmt"
	"strings"

	"github.com/altuslabsxyz/solbuild/internal/solcjson"
)

// DiagnosticError is returned when the compiler ran but rejected the
// sources. It carries every error-severity diagnostic; warnings are
// reported through the logger instead.
type DiagnosticError struct {
	Diagnostics []solcjson.Diagnostic
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d error(s)", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(d.Format(), "\n"))
	}
	return sb.String()
}

// ContractNotFoundError is returned when a requested contract appears
// in none of the compiled sources.
type ContractNotFoundError struct {
	Contract  string
	Available []string
}

func (e *ContractNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("contract %s not found in compilation output", e.Contract)
	}
	return fmt.Sprintf("contract %s not found in compilation output (available: %s)",
		e.Contract, strings.Join(e.Available, ", "))
}

// AmbiguousContractError is returned when a requested contract name is
// defined in more than one source file. Callers disambiguate with a
// qualified "file:Name" target.
type AmbiguousContractError struct {
	Contract string
	Files    []string
}

func (e *AmbiguousContractError) Error() string {
	return fmt.Sprintf("contract %s is defined in multiple files: %s (qualify it as %s:%s)",
		e.Contract, strings.Join(e.Files, ", "), e.Files[0], e.Contract)
}
