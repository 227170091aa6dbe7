package invariants

import (
	"testing"

	"github.com/altuslabsxyz/solbuild/internal/ast"
)

func mustNode(t *testing.T, src string) *ast.Node {
	t.Helper()
	node, err := ast.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return node
}

func guardedBody(t *testing.T) *ast.Node {
	return mustNode(t, `{
		"nodeType": "FunctionDefinition",
		"name": "withdraw",
		"body": {
			"nodeType": "Block",
			"statements": [
				{
					"nodeType": "ExpressionStatement",
					"expression": {
						"nodeType": "FunctionCall",
						"src": "200:30:0",
						"expression": {"nodeType": "Identifier", "name": "require"},
						"arguments": [
							{
								"nodeType": "BinaryOperation",
								"operator": "<=",
								"leftExpression": {"nodeType": "Identifier", "name": "amount"},
								"rightExpression": {"nodeType": "Identifier", "name": "balance"}
							},
							{"nodeType": "Literal", "kind": "string", "value": "insufficient"}
						]
					}
				},
				{
					"nodeType": "IfStatement",
					"trueBody": {
						"nodeType": "Block",
						"statements": [
							{
								"nodeType": "ExpressionStatement",
								"expression": {
									"nodeType": "FunctionCall",
									"src": "260:15:0",
									"expression": {"nodeType": "Identifier", "name": "assert"},
									"arguments": [
										{
											"nodeType": "UnaryOperation",
											"operator": "!",
											"prefix": true,
											"subExpression": {"nodeType": "Identifier", "name": "locked"}
										}
									]
								}
							}
						]
					}
				},
				{
					"nodeType": "ExpressionStatement",
					"expression": {
						"nodeType": "FunctionCall",
						"expression": {"nodeType": "Identifier", "name": "transfer"},
						"arguments": [{"nodeType": "Identifier", "name": "amount"}]
					}
				}
			]
		}
	}`)
}

func TestExtract(t *testing.T) {
	contract := &ast.ContractSummary{
		Path: "src/Vault.sol",
		Name: "Vault",
		StateVariables: []*ast.Node{
			mustNode(t, `{
				"nodeType": "VariableDeclaration",
				"name": "MAX_SUPPLY",
				"mutability": "constant",
				"src": "10:30:0",
				"value": {"nodeType": "Literal", "kind": "number", "value": "1000000"}
			}`),
			mustNode(t, `{
				"nodeType": "VariableDeclaration",
				"name": "owner",
				"mutability": "immutable",
				"src": "50:20:0"
			}`),
			mustNode(t, `{"nodeType": "VariableDeclaration", "name": "balance", "mutability": "mutable"}`),
		},
		Modifiers: []*ast.Node{
			mustNode(t, `{
				"nodeType": "ModifierDefinition",
				"name": "onlyOwner",
				"body": {
					"nodeType": "Block",
					"statements": [
						{
							"nodeType": "ExpressionStatement",
							"expression": {
								"nodeType": "FunctionCall",
								"src": "100:40:0",
								"expression": {"nodeType": "Identifier", "name": "require"},
								"arguments": [
									{
										"nodeType": "BinaryOperation",
										"operator": "==",
										"leftExpression": {
											"nodeType": "MemberAccess",
											"memberName": "sender",
											"expression": {"nodeType": "Identifier", "name": "msg"}
										},
										"rightExpression": {"nodeType": "Identifier", "name": "owner"}
									},
									{"nodeType": "Literal", "kind": "string", "value": "not owner"}
								]
							}
						}
					]
				}
			}`),
		},
		Functions: []*ast.Node{guardedBody(t)},
	}
	index := &ast.Index{Contracts: []*ast.ContractSummary{contract}}

	invs, err := NewExtractor(nil).Extract(index)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []Invariant{
		{Contract: "Vault", File: "src/Vault.sol", Kind: KindConstantState, Target: "MAX_SUPPLY", Expression: "1000000", Source: "10:30:0"},
		{Contract: "Vault", File: "src/Vault.sol", Kind: KindImmutableState, Target: "owner", Source: "50:20:0"},
		{Contract: "Vault", File: "src/Vault.sol", Kind: KindModifierGuard, Target: "onlyOwner", Expression: "msg.sender == owner", Description: "not owner", Source: "100:40:0"},
		{Contract: "Vault", File: "src/Vault.sol", Kind: KindRequire, Target: "withdraw", Expression: "amount <= balance", Description: "insufficient", Source: "200:30:0"},
		{Contract: "Vault", File: "src/Vault.sol", Kind: KindAssert, Target: "withdraw", Expression: "!locked", Source: "260:15:0"},
	}
	if len(invs) != len(want) {
		t.Fatalf("expected %d invariants, got %d: %+v", len(want), len(invs), invs)
	}
	for i, w := range want {
		if invs[i] != w {
			t.Errorf("invariant %d:\nexpected %+v\ngot      %+v", i, w, invs[i])
		}
	}
}

func TestExtractLegacyConstantField(t *testing.T) {
	contract := &ast.ContractSummary{
		Path: "a.sol",
		Name: "Legacy",
		StateVariables: []*ast.Node{
			mustNode(t, `{"nodeType": "VariableDeclaration", "name": "VERSION", "constant": true}`),
		},
	}
	index := &ast.Index{Contracts: []*ast.ContractSummary{contract}}

	invs, err := NewExtractor(nil).Extract(index)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(invs) != 1 || invs[0].Kind != KindConstantState {
		t.Errorf("expected constant-state from legacy field, got %+v", invs)
	}
}

func TestExtractConstructorTarget(t *testing.T) {
	contract := &ast.ContractSummary{
		Path: "a.sol",
		Name: "C",
		Functions: []*ast.Node{
			mustNode(t, `{
				"nodeType": "FunctionDefinition",
				"name": "",
				"kind": "constructor",
				"body": {
					"nodeType": "Block",
					"statements": [
						{
							"nodeType": "ExpressionStatement",
							"expression": {
								"nodeType": "FunctionCall",
								"expression": {"nodeType": "Identifier", "name": "require"},
								"arguments": [{"nodeType": "Identifier", "name": "ok"}]
							}
						}
					]
				}
			}`),
		},
	}
	index := &ast.Index{Contracts: []*ast.ContractSummary{contract}}

	invs, err := NewExtractor(nil).Extract(index)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(invs) != 1 || invs[0].Target != "constructor" {
		t.Errorf("expected constructor target, got %+v", invs)
	}
}

func TestGuardCalls(t *testing.T) {
	calls := guardCalls(guardedBody(t).Get("body"))
	if len(calls) != 2 {
		t.Fatalf("expected require and assert, got %d calls", len(calls))
	}
	if calls[0].kind != KindRequire || calls[1].kind != KindAssert {
		t.Errorf("wrong kinds: %s, %s", calls[0].kind, calls[1].kind)
	}

	if guardCalls(nil) != nil {
		t.Error("nil body should yield no calls")
	}

	// Calls without arguments and non-identifier callees are skipped.
	noise := mustNode(t, `{
		"nodeType": "Block",
		"statements": [
			{
				"nodeType": "ExpressionStatement",
				"expression": {
					"nodeType": "FunctionCall",
					"expression": {"nodeType": "Identifier", "name": "require"},
					"arguments": []
				}
			},
			{
				"nodeType": "ExpressionStatement",
				"expression": {
					"nodeType": "FunctionCall",
					"expression": {
						"nodeType": "MemberAccess",
						"memberName": "require",
						"expression": {"nodeType": "Identifier", "name": "lib"}
					},
					"arguments": [{"nodeType": "Identifier", "name": "x"}]
				}
			}
		]
	}`)
	if got := guardCalls(noise); len(got) != 0 {
		t.Errorf("expected no calls, got %+v", got)
	}
}

func TestFunctionName(t *testing.T) {
	tests := []struct {
		name string
		node string
		want string
	}{
		{"named", `{"nodeType": "FunctionDefinition", "name": "transfer"}`, "transfer"},
		{"constructor", `{"nodeType": "FunctionDefinition", "name": "", "kind": "constructor"}`, "constructor"},
		{"fallback", `{"nodeType": "FunctionDefinition", "name": "", "kind": "fallback"}`, "fallback"},
		{"anonymous", `{"nodeType": "FunctionDefinition", "name": ""}`, "function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := functionName(mustNode(t, tt.node)); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRenderExpression(t *testing.T) {
	tests := []struct {
		name string
		node string
		want string
	}{
		{
			"identifier",
			`{"nodeType": "Identifier", "name": "x"}`,
			"x",
		},
		{
			"number literal",
			`{"nodeType": "Literal", "kind": "number", "value": "42"}`,
			"42",
		},
		{
			"string literal",
			`{"nodeType": "Literal", "kind": "string", "value": "fail"}`,
			`"fail"`,
		},
		{
			"hex literal fallback",
			`{"nodeType": "Literal", "kind": "number", "hexValue": "0xff"}`,
			"0xff",
		},
		{
			"member access",
			`{"nodeType": "MemberAccess", "memberName": "sender", "expression": {"nodeType": "Identifier", "name": "msg"}}`,
			"msg.sender",
		},
		{
			"index access",
			`{"nodeType": "IndexAccess",
				"baseExpression": {"nodeType": "Identifier", "name": "balances"},
				"indexExpression": {"nodeType": "MemberAccess", "memberName": "sender", "expression": {"nodeType": "Identifier", "name": "msg"}}}`,
			"balances[msg.sender]",
		},
		{
			"binary operation",
			`{"nodeType": "BinaryOperation", "operator": ">=",
				"leftExpression": {"nodeType": "Identifier", "name": "a"},
				"rightExpression": {"nodeType": "Identifier", "name": "b"}}`,
			"a >= b",
		},
		{
			"prefix unary",
			`{"nodeType": "UnaryOperation", "operator": "!", "prefix": true,
				"subExpression": {"nodeType": "Identifier", "name": "paused"}}`,
			"!paused",
		},
		{
			"suffix unary",
			`{"nodeType": "UnaryOperation", "operator": "++", "prefix": false,
				"subExpression": {"nodeType": "Identifier", "name": "i"}}`,
			"i++",
		},
		{
			"function call",
			`{"nodeType": "FunctionCall",
				"expression": {"nodeType": "Identifier", "name": "balanceOf"},
				"arguments": [{"nodeType": "Identifier", "name": "owner"}]}`,
			"balanceOf(owner)",
		},
		{
			"tuple",
			`{"nodeType": "TupleExpression", "components": [
				{"nodeType": "Identifier", "name": "a"},
				{"nodeType": "Identifier", "name": "b"}]}`,
			"(a, b)",
		},
		{
			"conditional",
			`{"nodeType": "Conditional",
				"condition": {"nodeType": "Identifier", "name": "flag"},
				"trueExpression": {"nodeType": "Identifier", "name": "a"},
				"falseExpression": {"nodeType": "Identifier", "name": "b"}}`,
			"flag ? a : b",
		},
		{
			"type name expression",
			`{"nodeType": "ElementaryTypeNameExpression",
				"typeName": {"nodeType": "ElementaryTypeName", "name": "address"}}`,
			"address",
		},
		{
			"legacy type name string",
			`{"nodeType": "ElementaryTypeNameExpression", "typeName": "address"}`,
			"address",
		},
		{
			"unknown node",
			`{"nodeType": "Assignment"}`,
			"<Assignment>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderExpression(mustNode(t, tt.node)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if got := renderExpression(nil); got != "" {
		t.Errorf("nil expression should render empty, got %q", got)
	}
}
