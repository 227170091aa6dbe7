package invariants

import (
	"fmt"
	"strings"

	"github.com/altuslabsxyz/solbuild/internal/ast"
)

// renderExpression reconstructs an approximate source form of an AST
// expression. Coverage targets the node types that actually show up in
// guard conditions; anything else renders as a placeholder rather than
// failing extraction.
func renderExpression(n *ast.Node) string {
	if n == nil {
		return ""
	}
	switch n.NodeType {
	case "Identifier":
		return n.Name

	case "Literal":
		value := n.String("value")
		if n.String("kind") == "string" {
			return fmt.Sprintf("%q", value)
		}
		if value == "" {
			value = n.String("hexValue")
		}
		return value

	case "MemberAccess":
		return renderExpression(n.Get("expression")) + "." + n.String("memberName")

	case "IndexAccess":
		return renderExpression(n.Get("baseExpression")) + "[" + renderExpression(n.Get("indexExpression")) + "]"

	case "BinaryOperation":
		return fmt.Sprintf("%s %s %s",
			renderExpression(n.Get("leftExpression")),
			n.String("operator"),
			renderExpression(n.Get("rightExpression")))

	case "UnaryOperation":
		sub := renderExpression(n.Get("subExpression"))
		if n.Has("prefix") && !n.Bool("prefix") {
			return sub + n.String("operator")
		}
		return n.String("operator") + sub

	case "FunctionCall":
		args := n.List("arguments")
		rendered := make([]string, 0, len(args))
		for _, arg := range args {
			rendered = append(rendered, renderExpression(arg))
		}
		return renderExpression(n.Get("expression")) + "(" + strings.Join(rendered, ", ") + ")"

	case "TupleExpression":
		components := n.List("components")
		rendered := make([]string, 0, len(components))
		for _, c := range components {
			rendered = append(rendered, renderExpression(c))
		}
		return "(" + strings.Join(rendered, ", ") + ")"

	case "Conditional":
		return fmt.Sprintf("%s ? %s : %s",
			renderExpression(n.Get("condition")),
			renderExpression(n.Get("trueExpression")),
			renderExpression(n.Get("falseExpression")))

	case "ElementaryTypeNameExpression":
		if typeName := n.Get("typeName"); typeName != nil {
			return typeName.Name
		}
		return n.String("typeName")

	default:
		return "<" + n.NodeType + ">"
	}
}
