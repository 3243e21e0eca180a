package symbolsearch

import (
	"context"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cexpand/internal/parsers"
	"github.com/mvp-joe/cexpand/internal/source"
)

// callPattern matches every call expression; the Finder narrows it down to
// calls of named functions and binds the declaration each one resolves to.
const callPattern = `(call_expression
  function: (_) @callee
  arguments: (argument_list) @args) @call`

// Finder discovers candidate calls in a translation unit and hands each of
// them to a MatchCallback together with the declaration it resolves to.
type Finder struct {
	lang  *parsers.Language
	query *sitter.Query
}

// NewFinder compiles the call query for lang. The Finder must be closed.
func NewFinder(lang *parsers.Language) (*Finder, error) {
	q, qerr := sitter.NewQuery(lang.Grammar(), callPattern)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile %s call query: %v", lang.Name, qerr)
	}
	return &Finder{
		lang:  lang,
		query: q,
	}, nil
}

// Close releases the compiled query.
func (f *Finder) Close() {
	if f.query != nil {
		f.query.Close()
	}
}

// Find walks all candidate calls under root in source order. It stops early
// when the callback reports Done, when ctx is cancelled, or when the callback
// returns an error.
func (f *Finder) Find(ctx context.Context, file *source.File, root *sitter.Node, callback MatchCallback) error {
	index := buildIndex(root, file.Content)
	names := f.query.CaptureNames()

	qc := sitter.NewQueryCursor()
	defer qc.Close()

	matches := qc.Matches(f.query, root, file.Content)
	for match := matches.Next(); match != nil; match = matches.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c, ok := callback.(completer); ok && c.Done() {
			return nil
		}

		nodes := make(BoundNodes, len(match.Captures)+3)
		for _, capture := range match.Captures {
			node := capture.Node
			nodes[names[capture.Index]] = &node
		}

		call, callee := nodes.Get(BindCall), nodes.Get(BindCallee)
		if call == nil || callee == nil {
			continue
		}
		ref, ok := referenceOf(callee, file.Content)
		if !ok {
			continue
		}
		argc := len(parsers.NamedChildren(nodes.Get(BindArguments)))
		result := &MatchResult{Nodes: nodes, File: file}
		if entry := index.resolve(ref, call, argc); entry != nil {
			nodes[BindDeclaration] = entry.node
			if entry.isDefinition {
				nodes[BindDefinition] = entry.node
			}
			if entry.recordNode != nil {
				nodes[BindRecord] = entry.recordNode
			}
		} else {
			// C declares unknown functions implicitly at their first call
			result.Implicit = f.lang == parsers.C && !ref.member && ref.qualifier == ""
		}

		if err := callback.Run(result); err != nil {
			return err
		}
	}
	return nil
}

// TargetLocation resolves a 1-based line and column to the location of the
// token under the cursor. A cursor anywhere inside an identifier resolves to
// the identifier's first byte.
func TargetLocation(file *source.File, root *sitter.Node, line, column int) (source.Location, error) {
	offset, err := file.Offset(line, column)
	if err != nil {
		return source.Location{}, err
	}
	return file.Location(parsers.TokenStart(root, offset)), nil
}
