// Package ast parses the compiler's JSON AST into a navigable node tree
// and summarizes the contracts it contains. The tree is schema-agnostic:
// solc grows new node fields across releases, so nodes keep their raw
// fields and decode them on demand instead of pinning a struct per
// node type.
package ast

import (
	"encoding/json"
	"sort"
)

// Node is one node of the compiler AST. Every node carries the common
// identity fields; all remaining fields stay raw and are reached through
// the typed accessors.
type Node struct {
	ID       int64
	NodeType string
	Name     string
	Src      string

	raw map[string]json.RawMessage
}

// UnmarshalJSON decodes a node, keeping unknown fields accessible.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.raw = raw
	if v, ok := raw["id"]; ok {
		json.Unmarshal(v, &n.ID)
	}
	if v, ok := raw["nodeType"]; ok {
		json.Unmarshal(v, &n.NodeType)
	}
	if v, ok := raw["name"]; ok {
		json.Unmarshal(v, &n.Name)
	}
	if v, ok := raw["src"]; ok {
		json.Unmarshal(v, &n.Src)
	}
	return nil
}

// Parse decodes a raw AST document into a node tree.
func Parse(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Get returns the named field as a node, or nil when the field is
// absent or not an AST node.
func (n *Node) Get(field string) *Node {
	raw, ok := n.raw[field]
	if !ok || !looksLikeNode(raw) {
		return nil
	}
	var child Node
	if err := json.Unmarshal(raw, &child); err != nil {
		return nil
	}
	return &child
}

// List returns the named field as a node slice. Array elements that are
// not nodes (solc uses null placeholders in some lists) are skipped.
func (n *Node) List(field string) []*Node {
	raw, ok := n.raw[field]
	if !ok {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	nodes := make([]*Node, 0, len(elems))
	for _, e := range elems {
		if !looksLikeNode(e) {
			continue
		}
		var child Node
		if err := json.Unmarshal(e, &child); err != nil {
			continue
		}
		nodes = append(nodes, &child)
	}
	return nodes
}

// String returns the named field as a string, or "" when absent.
func (n *Node) String(field string) string {
	raw, ok := n.raw[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Bool returns the named field as a bool, or false when absent.
func (n *Node) Bool(field string) bool {
	raw, ok := n.raw[field]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// Raw returns the named field's raw JSON, or nil when absent.
func (n *Node) Raw(field string) json.RawMessage {
	return n.raw[field]
}

// Has reports whether the named field is present.
func (n *Node) Has(field string) bool {
	_, ok := n.raw[field]
	return ok
}

// Children returns every directly nested node: single-node fields and
// node-array fields, with fields visited in sorted order so traversal
// is deterministic.
func (n *Node) Children() []*Node {
	fields := make([]string, 0, len(n.raw))
	for f := range n.raw {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var children []*Node
	for _, f := range fields {
		if child := n.Get(f); child != nil {
			children = append(children, child)
			continue
		}
		children = append(children, n.List(f)...)
	}
	return children
}

// Walk traverses the subtree rooted at n in depth-first order. The
// visitor returns false to skip a node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children() {
		child.Walk(visit)
	}
}

// looksLikeNode probes whether a raw value is an object carrying a
// nodeType discriminator.
func looksLikeNode(raw json.RawMessage) bool {
	var probe struct {
		NodeType *string `json:"nodeType"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.NodeType != nil
}
