package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeText extracts the text content of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// SameNode reports whether a and b are the same node of the same tree.
func SameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Id() == b.Id()
}

// WalkTree recursively walks a tree-sitter tree and calls the visitor for each node.
// Returning false from the visitor skips the node's children.
func WalkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		WalkTree(node.Child(uint(i)), visitor)
	}
}

// FindChildByType finds the first child node with the given type.
func FindChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// FindChildrenByType finds all child nodes with the given type.
func FindChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}

// NamedChildren returns the named children of node, skipping comments.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		if child.Kind() == "comment" {
			continue
		}
		results = append(results, child)
	}
	return results
}

// FirstNamedChild returns the first named, non-comment child of node.
func FirstNamedChild(node *sitter.Node) *sitter.Node {
	children := NamedChildren(node)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// Ancestor returns the closest strict ancestor of node whose kind is one of kinds.
func Ancestor(node *sitter.Node, kinds ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		for _, kind := range kinds {
			if parent.Kind() == kind {
				return parent
			}
		}
	}
	return nil
}

// SkipParentheses climbs from node through enclosing parenthesized expressions
// and returns the outermost one (or node itself).
func SkipParentheses(node *sitter.Node) *sitter.Node {
	for {
		parent := node.Parent()
		if parent == nil || parent.Kind() != "parenthesized_expression" {
			return node
		}
		node = parent
	}
}

// TokenStart returns the start offset of the identifier token that contains
// offset. Offsets that do not fall on an identifier are returned unchanged.
func TokenStart(root *sitter.Node, offset int) int {
	if root == nil || offset < 0 {
		return offset
	}
	leaf := root.DescendantForByteRange(uint(offset), uint(offset))
	if leaf == nil {
		return offset
	}
	if isIdentifierKind(leaf.Kind()) {
		return int(leaf.StartByte())
	}
	return offset
}

func isIdentifierKind(kind string) bool {
	switch kind {
	case "identifier", "field_identifier", "type_identifier", "namespace_identifier", "destructor_name", "operator_name":
		return true
	}
	return false
}

// Collapse normalizes runs of whitespace in s to single spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
