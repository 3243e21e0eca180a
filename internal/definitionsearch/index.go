package definitionsearch

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cexpand/internal/parsers"
	"github.com/mvp-joe/cexpand/internal/query"
	"github.com/mvp-joe/cexpand/internal/source"
	"github.com/mvp-joe/cexpand/internal/symbolsearch"
)

// candidate is one function definition found in a file.
type candidate struct {
	name       string
	scope      string
	parameters int
	variadic   bool
	definition *query.DefinitionData
}

// fileIndex holds the definitions of one parsed file. Trees are not kept;
// everything a match needs is extracted while the tree is alive.
type fileIndex struct {
	path       string
	candidates []candidate
}

func indexFile(path string, content []byte) (*fileIndex, error) {
	lang, err := parsers.ForPath(path)
	if err != nil {
		return nil, err
	}

	tree, err := lang.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	file := source.NewFile(path, content)
	ix := &fileIndex{path: path}

	parsers.WalkTree(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Kind() != "function_definition" || n.ChildByFieldName("body") == nil {
			return true
		}
		for _, sig := range parsers.FunctionSignatures(n, content) {
			def := symbolsearch.CollectDefinition(file, n, sig.Name)
			if def == nil {
				continue
			}
			ix.candidates = append(ix.candidates, candidate{
				name:       sig.Name,
				scope:      definitionScope(n, sig, content),
				parameters: len(sig.Parameters),
				variadic:   sig.Variadic,
				definition: def,
			})
		}
		// local classes may define methods inline
		return true
	})

	return ix, nil
}

// lookup returns the first definition in file order matching decl.
func (ix *fileIndex) lookup(decl *query.DeclarationData) *query.DefinitionData {
	scope := declarationScope(decl)
	for _, c := range ix.candidates {
		if c.name != decl.Name || c.scope != scope {
			continue
		}
		if decl.Implicit {
			return c.definition
		}
		if c.parameters != len(decl.Parameters) || c.variadic != decl.Variadic {
			continue
		}
		return c.definition
	}
	return nil
}

// definitionScope is the innermost class, qualifier or namespace name a
// definition belongs to.
func definitionScope(def *sitter.Node, sig *parsers.Signature, src []byte) string {
	if _, record := parsers.EnclosingRecord(def, src); record != "" {
		return record
	}
	if sig.Qualifier != "" {
		return parsers.RecordName(sig.Qualifier)
	}
	return lastComponent(parsers.EnclosingNamespace(def, src))
}

func declarationScope(decl *query.DeclarationData) string {
	if decl.Record != "" {
		return decl.Record
	}
	i := strings.LastIndex(decl.QualifiedName, "::")
	if i < 0 {
		return ""
	}
	return lastComponent(decl.QualifiedName[:i])
}

func lastComponent(qualified string) string {
	if i := strings.LastIndex(qualified, "::"); i >= 0 {
		return qualified[i+2:]
	}
	return qualified
}
