package symbolsearch

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cexpand/internal/parsers"
	"github.com/mvp-joe/cexpand/internal/query"
)

// checkSafety reports whether call can be replaced by a block of statements.
// Ancestors are walked up to the enclosing statement; parentheses, casts and
// operators in between are transparent. Any call expression met on the way
// encloses this call as an argument or callee operand. Object construction
// (new expressions, list or parenthesized initialization of a non-scalar)
// counts as an enclosing call.
func checkSafety(call *sitter.Node) (query.UnsafeReason, *sitter.Node, bool) {
	child := call
	for node := call.Parent(); node != nil; child, node = node, node.Parent() {
		kind := node.Kind()
		switch {
		case kind == "call_expression", kind == "new_expression":
			return query.ReasonNestedCall, node, false
		case kind == "compound_literal_expression":
			if !isScalarType(node.ChildByFieldName("type")) {
				return query.ReasonNestedCall, node, false
			}
		case kind == "init_declarator":
			if isObjectInitializer(node, child) {
				return query.ReasonNestedCall, node, false
			}
		case isInitializerContext(kind):
			return query.ReasonOutsideFunctionBody, nil, false
		case strings.HasSuffix(kind, "_statement"), kind == "declaration":
			if parsers.Ancestor(node, "compound_statement") == nil {
				return query.ReasonOutsideFunctionBody, nil, false
			}
			return "", nil, true
		case kind == "function_definition", kind == "translation_unit":
			return query.ReasonOutsideFunctionBody, nil, false
		}
	}
	return query.ReasonOutsideFunctionBody, nil, false
}

// isInitializerContext reports node kinds whose expressions are evaluated
// outside of any statement: default arguments, member initializers, lambda
// captures and enumerator values.
func isInitializerContext(kind string) bool {
	switch kind {
	case "parameter_declaration",
		"optional_parameter_declaration",
		"field_declaration",
		"field_initializer_list",
		"lambda_capture_specifier",
		"lambda_expression",
		"enumerator",
		"template_argument_list":
		return true
	}
	return false
}

// isObjectInitializer reports whether value, the initializer of init, is an
// argument or brace list constructing an array, class or aggregate object.
func isObjectInitializer(init, value *sitter.Node) bool {
	if !parsers.SameNode(init.ChildByFieldName("value"), value) {
		return false
	}
	if value.Kind() != "argument_list" && value.Kind() != "initializer_list" {
		return false
	}

	switch declarator := init.ChildByFieldName("declarator"); {
	case declarator == nil:
		return false
	case declarator.Kind() == "pointer_declarator", declarator.Kind() == "reference_declarator":
		return false
	case declarator.Kind() == "array_declarator":
		return true
	}

	decl := init.Parent()
	if decl == nil {
		return true
	}
	return !isScalarType(decl.ChildByFieldName("type"))
}

// isScalarType reports type specifiers that never name a class: builtin
// types, enums and auto.
func isScalarType(typ *sitter.Node) bool {
	if typ == nil {
		return false
	}
	switch typ.Kind() {
	case "type_descriptor":
		if declarator := typ.ChildByFieldName("declarator"); declarator != nil {
			return declarator.Kind() == "abstract_pointer_declarator"
		}
		return isScalarType(typ.ChildByFieldName("type"))
	case "primitive_type", "sized_type_specifier", "placeholder_type_specifier", "enum_specifier":
		return true
	}
	return false
}
