package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Test Plan for parsers:
// - ForPath() selects C for .c and C++ for C++ sources and headers
// - ForPath() rejects unknown extensions
// - Parse() produces a tree for both grammars
// - FunctionSignatures() extracts names, return types, parameters for prototypes and definitions
// - FunctionSignatures() handles several declarators, (void), variadics, defaults, trailing return types
// - NameOf() splits qualified names
// - RecordName() strips namespaces and template arguments
// - TokenStart() moves a cursor to the start of the identifier under it

func parse(t *testing.T, lang *Language, src string) (*sitter.Tree, []byte) {
	t.Helper()
	source := []byte(src)
	tree, err := lang.Parse(source)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree, source
}

// firstOfKind returns the first node of the given kind in document order.
func firstOfKind(root *sitter.Node, kind string) *sitter.Node {
	var found *sitter.Node
	WalkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind() == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

func TestForPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want *Language
	}{
		{"main.c", C},
		{"src/Main.C", C},
		{"lib.cpp", Cpp},
		{"lib.cc", Cpp},
		{"include/lib.h", Cpp},
		{"include/lib.hpp", Cpp},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			lang, err := ForPath(tt.path)
			require.NoError(t, err)
			assert.Same(t, tt.want, lang)
		})
	}

	_, err := ForPath("main.go")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParse_BothGrammars(t *testing.T) {
	t.Parallel()

	tree, _ := parse(t, C, "int main(void) { return 0; }")
	assert.Equal(t, "translation_unit", tree.RootNode().Kind())
	assert.False(t, tree.RootNode().HasError())

	tree, _ = parse(t, Cpp, "class A { public: int f() const; };")
	assert.Equal(t, "translation_unit", tree.RootNode().Kind())
	assert.False(t, tree.RootNode().HasError())
}

func TestFunctionSignatures_Prototype(t *testing.T) {
	t.Parallel()

	tree, src := parse(t, C, "static const char *lookup(int id, struct table *t);")
	decl := firstOfKind(tree.RootNode(), "declaration")
	require.NotNil(t, decl)

	sig := FunctionSignature(decl, src, "lookup")
	require.NotNil(t, sig)
	assert.Equal(t, "lookup", sig.Name)
	assert.Equal(t, "const char *", sig.ReturnType)
	assert.Equal(t, []Parameter{
		{Name: "id", Type: "int"},
		{Name: "t", Type: "struct table *"},
	}, sig.Parameters)
	assert.Equal(t, "lookup", NodeText(sig.NameNode, src))
	assert.False(t, sig.Variadic)

	assert.Nil(t, FunctionSignature(decl, src, "other"))
}

func TestFunctionSignatures_SeveralDeclarators(t *testing.T) {
	t.Parallel()

	tree, src := parse(t, C, "int a, f(int), *g(void);")
	decl := firstOfKind(tree.RootNode(), "declaration")

	sigs := FunctionSignatures(decl, src)
	require.Len(t, sigs, 2)
	assert.Equal(t, "f", sigs[0].Name)
	assert.Equal(t, []Parameter{{Type: "int"}}, sigs[0].Parameters)
	assert.Equal(t, "g", sigs[1].Name)
	assert.Equal(t, "int *", sigs[1].ReturnType)
	assert.Empty(t, sigs[1].Parameters)
}

func TestFunctionSignatures_FunctionPointerVariable(t *testing.T) {
	t.Parallel()

	tree, src := parse(t, C, "int (*handler)(int);")
	decl := firstOfKind(tree.RootNode(), "declaration")
	assert.Empty(t, FunctionSignatures(decl, src))
}

func TestFunctionSignatures_Variadic(t *testing.T) {
	t.Parallel()

	tree, src := parse(t, C, "int logf(const char *fmt, ...);")
	sig := FunctionSignature(firstOfKind(tree.RootNode(), "declaration"), src, "")
	require.NotNil(t, sig)
	assert.True(t, sig.Variadic)
	assert.Len(t, sig.Parameters, 1)
}

func TestFunctionSignatures_Definition(t *testing.T) {
	t.Parallel()

	tree, src := parse(t, C, "unsigned long hash(const char *s) {\n  return 0;\n}\n")
	def := firstOfKind(tree.RootNode(), "function_definition")

	sig := FunctionSignature(def, src, "")
	require.NotNil(t, sig)
	assert.Equal(t, "hash", sig.Name)
	assert.Equal(t, "unsigned long", sig.ReturnType)
	assert.Equal(t, []Parameter{{Name: "s", Type: "const char *"}}, sig.Parameters)
}

func TestFunctionSignatures_CppFeatures(t *testing.T) {
	t.Parallel()

	src := `namespace geo {
struct Point {
  double dist(const Point &other, int precision = 2) const;
};
auto Point::dist(const Point &other, int precision) const -> double { return 0; }
}
`
	tree, source := parse(t, Cpp, src)

	field := firstOfKind(tree.RootNode(), "field_declaration")
	require.NotNil(t, field)
	sig := FunctionSignature(field, source, "dist")
	require.NotNil(t, sig)
	assert.True(t, sig.Const)
	assert.Equal(t, "double", sig.ReturnType)
	assert.Equal(t, []Parameter{
		{Name: "other", Type: "const Point &"},
		{Name: "precision", Type: "int", Default: "2"},
	}, sig.Parameters)

	record, name := EnclosingRecord(field, source)
	require.NotNil(t, record)
	assert.Equal(t, "Point", name)

	def := firstOfKind(tree.RootNode(), "function_definition")
	require.NotNil(t, def)
	sig = FunctionSignature(def, source, "dist")
	require.NotNil(t, sig)
	assert.Equal(t, "Point", sig.Qualifier)
	assert.Equal(t, "double", sig.ReturnType)
}

func TestNameOf(t *testing.T) {
	t.Parallel()

	tree, src := parse(t, Cpp, "void g() { a::b::run(1); }")
	call := firstOfKind(tree.RootNode(), "call_expression")
	require.NotNil(t, call)

	name, qualifier, node := NameOf(call.ChildByFieldName("function"), src)
	assert.Equal(t, "run", name)
	assert.Equal(t, "a::b", qualifier)
	assert.Equal(t, "run", NodeText(node, src))

	name, qualifier, node = NameOf(nil, src)
	assert.Empty(t, name)
	assert.Empty(t, qualifier)
	assert.Nil(t, node)
}

func TestRecordName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Vec", RecordName("ns::Vec<T>"))
	assert.Equal(t, "Vec", RecordName("Vec"))
	assert.Equal(t, "", RecordName(""))
}

func TestTokenStart(t *testing.T) {
	t.Parallel()

	src := "int value = compute(1);"
	tree, _ := parse(t, C, src)
	root := tree.RootNode()

	start := strings.Index(src, "compute")
	assert.Equal(t, start, TokenStart(root, start+3))
	assert.Equal(t, start, TokenStart(root, start))

	paren := strings.Index(src, "(")
	assert.Equal(t, paren, TokenStart(root, paren))
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	tree, src := parse(t, C, "int f(void) { return (g()); }")
	root := tree.RootNode()

	call := firstOfKind(root, "call_expression")
	require.NotNil(t, call)
	outer := SkipParentheses(call)
	assert.Equal(t, "parenthesized_expression", outer.Kind())
	assert.Equal(t, "return_statement", outer.Parent().Kind())

	fn := Ancestor(call, "function_definition")
	require.NotNil(t, fn)
	assert.True(t, SameNode(fn, firstOfKind(root, "function_definition")))
	assert.Nil(t, Ancestor(root, "function_definition"))

	body := fn.ChildByFieldName("body")
	assert.NotNil(t, FindChildByType(body, "return_statement"))
	assert.Len(t, FindChildrenByType(body, "return_statement"), 1)
	assert.Equal(t, "g()", NodeText(call, src))
	assert.Equal(t, "a b c", Collapse("  a\n\tb   c "))
}
