package solc

import (
	"fmt"
	"strings"
)

// InvocationError is returned when running the compiler toolchain fails:
// bootstrapping solc-select, selecting a version, or executing solc
// itself. Stderr carries the subprocess output when available.
type InvocationError struct {
	Operation string
	Stderr    string
	Err       error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("solc %s failed", e.Operation)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// ToolNotFoundError is returned when a required executable is not on
// PATH and could not be bootstrapped.
type ToolNotFoundError struct {
	Tool string
	Hint string
}

func (e *ToolNotFoundError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s not found in PATH (%s)", e.Tool, e.Hint)
	}
	return fmt.Sprintf("%s not found in PATH", e.Tool)
}
