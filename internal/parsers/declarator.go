package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parameter is one parameter of a function declarator.
type Parameter struct {
	Name    string
	Type    string
	Default string
}

// Signature describes the function declarator of a declaration or definition.
type Signature struct {
	Name      string
	Qualifier string

	// NameNode is the node spelling the unqualified name.
	NameNode *sitter.Node

	// Declarator is the function_declarator node.
	Declarator *sitter.Node

	ReturnType string
	Parameters []Parameter
	Variadic   bool
	Const      bool
}

// FunctionSignature extracts the signature of the function named name from a
// function_definition, declaration or field_declaration node. An empty name
// accepts the first function declarator found. It returns nil when the node
// declares no such function.
func FunctionSignature(decl *sitter.Node, source []byte, name string) *Signature {
	for _, sig := range FunctionSignatures(decl, source) {
		if name == "" || sig.Name == name {
			return sig
		}
	}
	return nil
}

// FunctionSignatures returns every function declared by decl, in order.
// int f(int), g(void); declares two.
func FunctionSignatures(decl *sitter.Node, source []byte) []*Signature {
	var sigs []*Signature
	if decl == nil {
		return sigs
	}

	for _, child := range NamedChildren(decl) {
		fn, suffix := unwindToFunction(child)
		if fn == nil {
			continue
		}
		inner := fn.ChildByFieldName("declarator")
		if inner == nil || inner.Kind() == "parenthesized_declarator" {
			// function pointer variable, not a function
			continue
		}
		fnName, qualifier, nameNode := NameOf(inner, source)
		if fnName == "" {
			continue
		}

		sig := &Signature{
			Name:       fnName,
			Qualifier:  qualifier,
			NameNode:   nameNode,
			Declarator: fn,
			ReturnType: JoinType(typeText(decl, source), suffix, ""),
		}
		if trailing := FindChildByType(fn, "trailing_return_type"); trailing != nil {
			sig.ReturnType = strings.TrimSpace(strings.TrimPrefix(Collapse(NodeText(trailing, source)), "->"))
		}
		for _, q := range FindChildrenByType(fn, "type_qualifier") {
			if NodeText(q, source) == "const" {
				sig.Const = true
			}
		}
		sig.Parameters, sig.Variadic = parameters(fn.ChildByFieldName("parameters"), source)
		sigs = append(sigs, sig)
	}
	return sigs
}

// DeclaratorName returns the variable name declared by a (possibly pointer,
// reference or array) declarator and the type suffix the declarator adds.
func DeclaratorName(node *sitter.Node, source []byte) (name string, pointer string, array string) {
	for node != nil {
		switch node.Kind() {
		case "identifier", "field_identifier":
			return NodeText(node, source), pointer, array
		case "pointer_declarator", "abstract_pointer_declarator":
			pointer += "*" + qualifiers(node, source)
			node = node.ChildByFieldName("declarator")
		case "reference_declarator", "abstract_reference_declarator":
			if node.ChildCount() > 0 {
				pointer += NodeText(node.Child(0), source)
			}
			node = FirstNamedChild(node)
		case "array_declarator", "abstract_array_declarator":
			array = "[]" + array
			node = node.ChildByFieldName("declarator")
		case "parenthesized_declarator":
			node = FirstNamedChild(node)
		case "init_declarator":
			node = node.ChildByFieldName("declarator")
		default:
			return "", pointer, array
		}
	}
	return "", pointer, array
}

// TypeText returns the spelled type of a declaration-like node: its
// qualifiers and its type specifier.
func TypeText(decl *sitter.Node, source []byte) string {
	return typeText(decl, source)
}

// RecordName strips template arguments and namespaces from a qualifier and
// returns the last component, e.g. "ns::Vec<T>" -> "Vec".
func RecordName(qualifier string) string {
	if i := strings.LastIndex(qualifier, "::"); i >= 0 {
		qualifier = qualifier[i+2:]
	}
	if i := strings.Index(qualifier, "<"); i >= 0 {
		qualifier = qualifier[:i]
	}
	return strings.TrimSpace(qualifier)
}

// EnclosingRecord returns the class, struct or union whose body contains node.
func EnclosingRecord(node *sitter.Node, source []byte) (*sitter.Node, string) {
	body := Ancestor(node, "field_declaration_list")
	if body == nil {
		return nil, ""
	}
	record := body.Parent()
	if record == nil {
		return nil, ""
	}
	switch record.Kind() {
	case "class_specifier", "struct_specifier", "union_specifier":
		return record, RecordName(NodeText(record.ChildByFieldName("name"), source))
	}
	return nil, ""
}

// EnclosingNamespace returns the "::"-joined names of the namespaces around node.
func EnclosingNamespace(node *sitter.Node, source []byte) string {
	var parts []string
	for ns := Ancestor(node, "namespace_definition"); ns != nil; ns = Ancestor(ns, "namespace_definition") {
		if name := ns.ChildByFieldName("name"); name != nil {
			parts = append([]string{NodeText(name, source)}, parts...)
		}
	}
	return strings.Join(parts, "::")
}

func unwindToFunction(node *sitter.Node) (*sitter.Node, string) {
	suffix := ""
	for node != nil {
		switch node.Kind() {
		case "function_declarator":
			return node, suffix
		case "pointer_declarator":
			suffix += "*"
			node = node.ChildByFieldName("declarator")
		case "reference_declarator":
			if node.ChildCount() > 0 {
				suffix += node.Child(0).Kind()
			}
			node = FirstNamedChild(node)
		case "parenthesized_declarator":
			node = FirstNamedChild(node)
		default:
			return nil, ""
		}
	}
	return nil, ""
}

// NameOf returns the unqualified name spelled by an identifier-like node, the
// qualifier in front of it, and the node holding the unqualified name.
// a::b::f yields ("f", "a::b", <f>).
func NameOf(node *sitter.Node, source []byte) (string, string, *sitter.Node) {
	if node == nil {
		return "", "", nil
	}
	switch node.Kind() {
	case "identifier", "field_identifier", "destructor_name", "operator_name":
		return NodeText(node, source), "", node
	case "qualified_identifier":
		scope := NodeText(node.ChildByFieldName("scope"), source)
		inner := node.ChildByFieldName("name")
		name, innerQualifier, nameNode := NameOf(inner, source)
		if innerQualifier != "" {
			scope += "::" + innerQualifier
		}
		return name, scope, nameNode
	case "template_function", "template_method":
		return NameOf(node.ChildByFieldName("name"), source)
	}
	return "", "", nil
}

func typeText(decl *sitter.Node, source []byte) string {
	typeNode := decl.ChildByFieldName("type")
	var parts []string
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(uint(i))
		if child.Kind() == "type_qualifier" || SameNode(child, typeNode) {
			parts = append(parts, Collapse(NodeText(child, source)))
		}
	}
	return strings.Join(parts, " ")
}

func qualifiers(node *sitter.Node, source []byte) string {
	var parts []string
	for _, q := range FindChildrenByType(node, "type_qualifier") {
		parts = append(parts, NodeText(q, source))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ") + " "
}

// JoinType combines a base type with the pointer and array suffixes a
// declarator adds: ("char", "*", "[]") -> "char *[]".
func JoinType(base, pointer, array string) string {
	pointer = strings.TrimSpace(pointer)
	typ := base
	if pointer != "" {
		if typ != "" {
			typ += " "
		}
		typ += pointer
	}
	return typ + array
}

func parameters(list *sitter.Node, source []byte) ([]Parameter, bool) {
	params := []Parameter{}
	variadic := false
	if list == nil {
		return params, variadic
	}

	for i := 0; i < int(list.ChildCount()); i++ {
		child := list.Child(uint(i))
		switch child.Kind() {
		case "...", "variadic_parameter":
			variadic = true
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
			if child.Kind() == "variadic_parameter_declaration" {
				variadic = true
			}
			params = append(params, parameter(child, source))
		}
	}

	// f(void) declares no parameters
	if len(params) == 1 && params[0].Name == "" && params[0].Type == "void" {
		params = params[:0]
	}
	return params, variadic
}

func parameter(node *sitter.Node, source []byte) Parameter {
	param := Parameter{}
	base := typeText(node, source)

	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		param.Type = base
	} else {
		name, pointer, array := DeclaratorName(declarator, source)
		if name == "" && pointer == "" && array == "" {
			// function pointers and other exotic declarators keep their spelling
			param.Type = Collapse(NodeText(node, source))
		} else {
			param.Name = name
			param.Type = JoinType(base, pointer, array)
		}
	}

	if def := node.ChildByFieldName("default_value"); def != nil {
		param.Default = NodeText(def, source)
	}
	return param
}
