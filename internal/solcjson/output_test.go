package solcjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput(t *testing.T) {
	data := []byte(`{
		"errors": [
			{"severity": "warning", "message": "unused variable"},
			{"severity": "error", "message": "expected ';'", "formattedMessage": "ParserError: expected ';'"}
		],
		"sources": {
			"a.sol": {"id": 0, "ast": {"nodeType": "SourceUnit"}}
		},
		"contracts": {
			"a.sol": {
				"A": {
					"abi": [],
					"evm": {
						"bytecode": {"object": "6080"},
						"deployedBytecode": {"object": "6080", "sourceMap": "0:10:0"}
					}
				}
			}
		}
	}`)

	out, err := ParseOutput(data)
	require.NoError(t, err)

	assert.Len(t, out.Errors, 2)
	assert.Equal(t, 0, out.Sources["a.sol"].ID)

	c := out.Contracts["a.sol"]["A"]
	assert.Equal(t, "6080", c.EVM.Bytecode.Object)
	assert.Equal(t, "0:10:0", c.EVM.DeployedBytecode.SourceMap)
}

func TestParseOutputRejectsGarbage(t *testing.T) {
	_, err := ParseOutput([]byte("not json"))
	assert.Error(t, err)
}

func TestFatalDiagnostics(t *testing.T) {
	out := &Output{
		Errors: []Diagnostic{
			{Severity: SeverityWarning, Message: "w1"},
			{Severity: SeverityError, Message: "e1"},
			{Severity: SeverityInfo, Message: "i1"},
			{Severity: SeverityError, Message: "e2"},
		},
	}

	fatal := out.FatalDiagnostics()
	require.Len(t, fatal, 2)
	assert.Equal(t, "e1", fatal[0].Message)
	assert.Equal(t, "e2", fatal[1].Message)
}

func TestFatalDiagnosticsWarningsOnly(t *testing.T) {
	out := &Output{
		Errors: []Diagnostic{
			{Severity: SeverityWarning, Message: "w1"},
		},
	}
	assert.Nil(t, out.FatalDiagnostics(), "warnings should not be fatal")
}

func TestDiagnosticFormat(t *testing.T) {
	formatted := Diagnostic{
		Severity:         SeverityError,
		Message:          "expected ';'",
		FormattedMessage: "ParserError: expected ';' at a.sol:3",
	}
	assert.Equal(t, "ParserError: expected ';' at a.sol:3", formatted.Format(),
		"formatted message should win")

	located := Diagnostic{
		Severity:       SeverityWarning,
		Message:        "unused variable",
		SourceLocation: &SourceLocation{File: "a.sol", Start: 10, End: 20},
	}
	assert.Contains(t, located.Format(), "a.sol", "fallback format should carry the file")

	bare := Diagnostic{Severity: SeverityError, Message: "boom"}
	assert.Equal(t, "error: boom", bare.Format())
}
