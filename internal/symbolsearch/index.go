package symbolsearch

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cexpand/internal/parsers"
)

// declEntry is one function declaration or definition in the unit.
type declEntry struct {
	node         *sitter.Node
	sig          *parsers.Signature
	record       string
	recordNode   *sitter.Node
	namespace    string
	isDefinition bool
}

// scope is the name a qualified call must use to reach the entry.
func (e *declEntry) scope() string {
	if e.record != "" {
		return e.record
	}
	if e.sig.Qualifier != "" {
		return parsers.RecordName(e.sig.Qualifier)
	}
	if i := strings.LastIndex(e.namespace, "::"); i >= 0 {
		return e.namespace[i+2:]
	}
	return e.namespace
}

func (e *declEntry) accepts(argc int) bool {
	required := 0
	for _, p := range e.sig.Parameters {
		if p.Default == "" {
			required++
		}
	}
	if e.sig.Variadic {
		// a C++ parameter pack may be empty
		return argc+1 >= required
	}
	return argc >= required && argc <= len(e.sig.Parameters)
}

// declIndex resolves callee names to the declarations visible in the unit.
type declIndex struct {
	src     []byte
	byName  map[string][]*declEntry
	records map[string]*sitter.Node
	aliases map[string]string
}

func buildIndex(root *sitter.Node, src []byte) *declIndex {
	ix := &declIndex{
		src:     src,
		byName:  make(map[string][]*declEntry),
		records: make(map[string]*sitter.Node),
		aliases: make(map[string]string),
	}

	var pending []*declEntry
	parsers.WalkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_specifier", "struct_specifier", "union_specifier":
			if n.ChildByFieldName("body") != nil {
				name := parsers.RecordName(parsers.NodeText(n.ChildByFieldName("name"), src))
				if _, ok := ix.records[name]; name != "" && !ok {
					ix.records[name] = n
				}
			}
		case "alias_declaration":
			name := parsers.NodeText(n.ChildByFieldName("name"), src)
			if target := aliasTarget(n.ChildByFieldName("type"), src); name != "" && target != "" {
				ix.aliases[name] = target
			}
		case "type_definition":
			typeNode := n.ChildByFieldName("type")
			target := aliasTarget(typeNode, src)
			for _, child := range parsers.NamedChildren(n) {
				if child.Kind() == "type_identifier" && !parsers.SameNode(child, typeNode) && target != "" {
					ix.aliases[parsers.NodeText(child, src)] = target
				}
			}
		case "function_definition", "declaration", "field_declaration":
			for _, sig := range parsers.FunctionSignatures(n, src) {
				entry := &declEntry{
					node:         n,
					sig:          sig,
					namespace:    parsers.EnclosingNamespace(n, src),
					isDefinition: n.Kind() == "function_definition",
				}
				entry.recordNode, entry.record = parsers.EnclosingRecord(n, src)
				pending = append(pending, entry)
			}
		}
		return true
	})

	// out-of-line member definitions name their class through the qualifier
	for _, entry := range pending {
		if entry.record == "" && entry.sig.Qualifier != "" {
			if record, ok := ix.records[parsers.RecordName(entry.sig.Qualifier)]; ok {
				entry.record = parsers.RecordName(entry.sig.Qualifier)
				entry.recordNode = record
			}
		}
		ix.byName[entry.sig.Name] = append(ix.byName[entry.sig.Name], entry)
	}
	return ix
}

// resolve picks the declaration a call refers to. Among redeclarations the
// definition wins, then the last declaration before the call, then the first.
func (ix *declIndex) resolve(ref calleeRef, call *sitter.Node, argc int) *declEntry {
	entries := ix.byName[ref.name]
	if len(entries) == 0 {
		return nil
	}

	var group []*declEntry
	switch {
	case ref.member:
		record := ix.knownRecord(ix.recordOfExpression(ref.base, call))
		group = filter(entries, func(e *declEntry) bool {
			return e.record != "" && (record == "" || e.record == record)
		})
	case ref.qualifier != "":
		scope := parsers.RecordName(ref.qualifier)
		if record := ix.knownRecord(scope); record != "" {
			scope = record
		}
		group = filter(entries, func(e *declEntry) bool {
			return e.scope() == scope
		})
	default:
		if record := ix.enclosingMethodRecord(call); record != "" {
			group = filter(entries, func(e *declEntry) bool {
				return e.record == record
			})
		}
		if len(group) == 0 {
			group = filter(entries, func(e *declEntry) bool {
				return e.record == ""
			})
		}
	}
	if len(group) == 0 {
		return nil
	}

	if byArity := filter(group, func(e *declEntry) bool { return e.accepts(argc) }); len(byArity) > 0 {
		group = byArity
	}
	first := group[0]
	group = filter(group, func(e *declEntry) bool {
		return e.record == first.record && len(e.sig.Parameters) == len(first.sig.Parameters)
	})

	for _, e := range group {
		if e.isDefinition {
			return e
		}
	}
	var last *declEntry
	for _, e := range group {
		if e.node.StartByte() < call.StartByte() {
			last = e
		}
	}
	if last != nil {
		return last
	}
	return group[0]
}

// enclosingMethodRecord returns the class whose member function contains node.
func (ix *declIndex) enclosingMethodRecord(node *sitter.Node) string {
	fn := parsers.Ancestor(node, "function_definition")
	if fn == nil {
		return ""
	}
	if record, name := parsers.EnclosingRecord(fn, ix.src); record != nil {
		return name
	}
	if sig := parsers.FunctionSignature(fn, ix.src, ""); sig != nil && sig.Qualifier != "" {
		name := parsers.RecordName(sig.Qualifier)
		if _, ok := ix.records[name]; ok {
			return name
		}
	}
	return ""
}

// recordOfExpression infers the class of a member call's object expression.
// Only `this` and plain variables declared in an enclosing scope are
// understood; anything else yields "".
func (ix *declIndex) recordOfExpression(base, call *sitter.Node) string {
	if base == nil {
		return ""
	}
	switch base.Kind() {
	case "this":
		return ix.enclosingMethodRecord(call)
	case "identifier":
	default:
		return ""
	}

	name := parsers.NodeText(base, ix.src)
	for scope := call.Parent(); scope != nil; scope = scope.Parent() {
		switch scope.Kind() {
		case "compound_statement", "translation_unit":
			for _, stmt := range parsers.NamedChildren(scope) {
				if stmt.StartByte() >= call.StartByte() {
					break
				}
				if stmt.Kind() != "declaration" {
					continue
				}
				if typ := declaredType(stmt, name, ix.src); typ != "" {
					return typ
				}
			}
		case "function_definition":
			sig := parsers.FunctionSignature(scope, ix.src, "")
			if sig == nil {
				continue
			}
			for _, param := range sig.Parameters {
				if param.Name == name {
					return recordOfType(param.Type)
				}
			}
		}
	}
	return ""
}

// declaredType returns the record type of variable name if decl declares it.
func declaredType(decl *sitter.Node, name string, src []byte) string {
	for _, child := range parsers.NamedChildren(decl) {
		if declared, _, _ := parsers.DeclaratorName(child, src); declared == name {
			return recordOfType(parsers.TypeText(decl, src))
		}
	}
	return ""
}

func recordOfType(typ string) string {
	var parts []string
	for _, word := range strings.Fields(strings.NewReplacer("*", " ", "&", " ").Replace(typ)) {
		switch word {
		case "const", "volatile", "struct", "class", "union", "enum":
			continue
		}
		parts = append(parts, word)
	}
	return parsers.RecordName(strings.Join(parts, " "))
}

// knownRecord follows type aliases from name and returns the record it
// names in this unit, or "" when the type is not a known record (auto,
// decltype, template parameters, types from other units).
func (ix *declIndex) knownRecord(name string) string {
	for hops := 0; name != "" && hops < 8; hops++ {
		if _, ok := ix.records[name]; ok {
			return name
		}
		target, ok := ix.aliases[name]
		if !ok {
			return ""
		}
		name = target
	}
	return ""
}

// aliasTarget returns the record name a typedef or using declaration refers to.
func aliasTarget(typeNode *sitter.Node, src []byte) string {
	if typeNode == nil {
		return ""
	}
	switch typeNode.Kind() {
	case "struct_specifier", "class_specifier", "union_specifier":
		return parsers.RecordName(parsers.NodeText(typeNode.ChildByFieldName("name"), src))
	case "type_descriptor":
		return aliasTarget(typeNode.ChildByFieldName("type"), src)
	}
	return recordOfType(parsers.NodeText(typeNode, src))
}

func filter(entries []*declEntry, keep func(*declEntry) bool) []*declEntry {
	var result []*declEntry
	for _, e := range entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result
}
