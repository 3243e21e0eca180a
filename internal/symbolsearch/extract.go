package symbolsearch

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cexpand/internal/parsers"
	"github.com/mvp-joe/cexpand/internal/query"
	"github.com/mvp-joe/cexpand/internal/source"
)

// calleeRef is the name a callee expression refers to.
type calleeRef struct {
	name      string
	qualifier string
	nameNode  *sitter.Node

	// member calls carry the object expression and its operator
	member   bool
	base     *sitter.Node
	operator string
}

// referenceOf resolves the callee of a call expression to the function name
// it spells. Callees that are not names (function pointers, call results,
// parenthesized expressions) are rejected.
func referenceOf(callee *sitter.Node, src []byte) (calleeRef, bool) {
	switch callee.Kind() {
	case "identifier", "qualified_identifier", "template_function":
		name, qualifier, nameNode := parsers.NameOf(callee, src)
		if name == "" {
			return calleeRef{}, false
		}
		return calleeRef{name: name, qualifier: qualifier, nameNode: nameNode}, true
	case "field_expression":
		name, qualifier, nameNode := parsers.NameOf(callee.ChildByFieldName("field"), src)
		if name == "" {
			return calleeRef{}, false
		}
		return calleeRef{
			name:      name,
			qualifier: qualifier,
			nameNode:  nameNode,
			member:    true,
			base:      callee.ChildByFieldName("argument"),
			operator:  parsers.NodeText(callee.ChildByFieldName("operator"), src),
		}, true
	}
	return calleeRef{}, false
}

func nodeRange(file *source.File, node *sitter.Node) source.Range {
	return file.Range(int(node.StartByte()), int(node.EndByte()))
}

func collectCallData(file *source.File, call, callee, args *sitter.Node, ref calleeRef) *query.CallData {
	src := file.Content
	data := &query.CallData{
		Range:     nodeRange(file, call),
		Name:      ref.name,
		Callee:    parsers.Collapse(parsers.NodeText(callee, src)),
		Arguments: []string{},
	}

	if ref.member && ref.base != nil {
		data.Base = &query.MemberBase{
			Text:     parsers.NodeText(ref.base, src),
			Operator: ref.operator,
		}
	}

	if args == nil {
		args = call.ChildByFieldName("arguments")
	}
	for _, arg := range parsers.NamedChildren(args) {
		data.Arguments = append(data.Arguments, parsers.NodeText(arg, src))
	}

	data.Assignee = collectAssignee(file, call)
	return data
}

// collectAssignee classifies the direct consumer of the call's value.
func collectAssignee(file *source.File, call *sitter.Node) *query.Assignee {
	src := file.Content
	node := parsers.SkipParentheses(call)
	parent := node.Parent()
	if parent == nil {
		return nil
	}

	// int x{f()}; int x = {f()}; int x(f());
	switch parent.Kind() {
	case "initializer_list", "argument_list":
		if init := parent.Parent(); init != nil && init.Kind() == "init_declarator" && len(parsers.NamedChildren(parent)) == 1 {
			node, parent = parent, init
		}
	}

	switch parent.Kind() {
	case "init_declarator":
		if !parsers.SameNode(parent.ChildByFieldName("value"), node) {
			return nil
		}
		name, pointer, array := parsers.DeclaratorName(parent.ChildByFieldName("declarator"), src)
		assignee := &query.Assignee{
			Kind: query.AssigneeDeclaration,
			Name: name,
		}
		if decl := parent.Parent(); decl != nil && decl.Kind() == "declaration" {
			assignee.Type = parsers.JoinType(parsers.TypeText(decl, src), pointer, array)
		}
		return assignee
	case "assignment_expression":
		if !parsers.SameNode(parent.ChildByFieldName("right"), node) {
			return nil
		}
		return &query.Assignee{
			Kind:     query.AssigneeAssignment,
			Name:     parsers.NodeText(parent.ChildByFieldName("left"), src),
			Operator: parsers.NodeText(parent.ChildByFieldName("operator"), src),
		}
	case "return_statement":
		return &query.Assignee{Kind: query.AssigneeReturn}
	}
	return nil
}

func collectDeclarationData(file *source.File, decl, record *sitter.Node, name string) *query.DeclarationData {
	src := file.Content
	sig := parsers.FunctionSignature(decl, src, name)
	if sig == nil {
		return nil
	}

	data := &query.DeclarationData{
		Name:          sig.Name,
		QualifiedName: sig.Name,
		Parameters:    convertParameters(sig.Parameters),
		Variadic:      sig.Variadic,
		ReturnType:    sig.ReturnType,
		IsConst:       sig.Const,
		Signature:     signatureText(decl, src),
		Location:      file.Location(int(sig.NameNode.StartByte())),
	}

	if record != nil {
		data.Record = parsers.RecordName(parsers.NodeText(record.ChildByFieldName("name"), src))
		data.IsStatic = isStaticMember(decl, record, sig, src)
		data.IsMethod = !data.IsStatic
	}

	switch {
	case sig.Qualifier != "":
		data.QualifiedName = sig.Qualifier + "::" + sig.Name
	case data.Record != "":
		data.QualifiedName = data.Record + "::" + sig.Name
	default:
		if ns := parsers.EnclosingNamespace(decl, src); ns != "" {
			data.QualifiedName = ns + "::" + sig.Name
		}
	}
	return data
}

// isStaticMember reports whether the member function declared by decl has no
// implicit receiver. Out-of-line definitions cannot repeat `static`, so the
// declarations in the class body are consulted.
func isStaticMember(decl, record *sitter.Node, sig *parsers.Signature, src []byte) bool {
	if hasStorageClass(decl, "static", src) {
		return true
	}
	for _, member := range parsers.NamedChildren(record.ChildByFieldName("body")) {
		if parsers.SameNode(member, decl) || !hasStorageClass(member, "static", src) {
			continue
		}
		if other := parsers.FunctionSignature(member, src, sig.Name); other != nil && len(other.Parameters) == len(sig.Parameters) {
			return true
		}
	}
	return false
}

func hasStorageClass(decl *sitter.Node, class string, src []byte) bool {
	for _, spec := range parsers.FindChildrenByType(decl, "storage_class_specifier") {
		if parsers.NodeText(spec, src) == class {
			return true
		}
	}
	return false
}

// implicitDeclaration describes the `int name()` declaration C assumes for a
// function called before any declaration.
func implicitDeclaration(file *source.File, ref calleeRef) *query.DeclarationData {
	return &query.DeclarationData{
		Name:          ref.name,
		QualifiedName: ref.name,
		Parameters:    []query.Parameter{},
		ReturnType:    "int",
		Signature:     "int " + ref.name + "()",
		Location:      file.Location(int(ref.nameNode.StartByte())),
		Implicit:      true,
	}
}

// CollectDefinition extracts the DefinitionData of the function named name
// from a function_definition node. It returns nil if def has no body.
func CollectDefinition(file *source.File, def *sitter.Node, name string) *query.DefinitionData {
	src := file.Content
	body := def.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	data := &query.DefinitionData{
		Location:       file.Location(int(def.StartByte())),
		Range:          nodeRange(file, def),
		Body:           nodeRange(file, body),
		BodyText:       parsers.NodeText(body, src),
		ParameterNames: []string{},
		Locals:         collectLocals(body, src),
	}

	if sig := parsers.FunctionSignature(def, src, name); sig != nil {
		data.Location = file.Location(int(sig.NameNode.StartByte()))
		for _, p := range sig.Parameters {
			data.ParameterNames = append(data.ParameterNames, p.Name)
		}
		if sig.Qualifier != "" {
			data.Record = parsers.RecordName(sig.Qualifier)
		}
	}

	if record, recordName := parsers.EnclosingRecord(def, src); record != nil {
		data.IsInClass = true
		data.Record = recordName
	}

	parsers.WalkTree(body, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "lambda_expression":
			return false
		case "return_statement":
			data.ReturnCount++
		}
		return true
	})

	return data
}

func collectLocals(body *sitter.Node, src []byte) []string {
	locals := []string{}
	seen := make(map[string]bool)

	parsers.WalkTree(body, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "lambda_expression":
			return false
		case "declaration":
			for _, child := range parsers.NamedChildren(n) {
				name, _, _ := parsers.DeclaratorName(child, src)
				if name != "" && !seen[name] {
					seen[name] = true
					locals = append(locals, name)
				}
			}
		}
		return true
	})
	return locals
}

func convertParameters(params []parsers.Parameter) []query.Parameter {
	result := make([]query.Parameter, len(params))
	for i, p := range params {
		result[i] = query.Parameter{
			Name:    p.Name,
			Type:    p.Type,
			Default: p.Default,
		}
	}
	return result
}

// signatureText returns the declaration up to its body or terminating semicolon.
func signatureText(decl *sitter.Node, src []byte) string {
	end := decl.EndByte()
	if body := decl.ChildByFieldName("body"); body != nil {
		end = body.StartByte()
	}
	text := string(src[decl.StartByte():end])
	return strings.TrimSuffix(parsers.Collapse(text), ";")
}
