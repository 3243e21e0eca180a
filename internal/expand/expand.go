// Package expand ties cursor resolution, call matching and definition search
// together into a single Locate operation.
package expand

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mvp-joe/cexpand/internal/definitionsearch"
	"github.com/mvp-joe/cexpand/internal/parsers"
	"github.com/mvp-joe/cexpand/internal/query"
	"github.com/mvp-joe/cexpand/internal/source"
	"github.com/mvp-joe/cexpand/internal/symbolsearch"
)

// DefinitionFinder finds a definition outside the translation unit.
type DefinitionFinder interface {
	Find(ctx context.Context, decl *query.DeclarationData, hint string) (*definitionsearch.Found, error)
}

// Request identifies the cursor position to expand at.
type Request struct {
	File   string
	Line   int
	Column int

	// Content overrides the file contents on disk, e.g. for an unsaved editor buffer.
	Content []byte

	// SearchDefinition enables the search of other files when the callee's
	// body is not in the translation unit.
	SearchDefinition bool
}

// Options configures an Expander.
type Options struct {
	// Definitions is used when a request asks for a definition search.
	// Nil disables the search.
	Definitions DefinitionFinder
	Verbose     bool
}

// Expander locates calls under a cursor.
type Expander struct {
	definitions DefinitionFinder
	verbose     bool
}

// New creates an Expander.
func New(opts Options) *Expander {
	return &Expander{
		definitions: opts.Definitions,
		verbose:     opts.Verbose,
	}
}

// Locate parses the requested file and evaluates every call against the
// cursor. Not finding a call and finding an unsafe one are reported through
// the Result status; errors are reserved for unreadable input, bad
// positions and internal failures.
func (e *Expander) Locate(ctx context.Context, req Request) (*Result, error) {
	path, err := filepath.Abs(req.File)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", req.File, err)
	}

	lang, err := parsers.ForPath(path)
	if err != nil {
		return nil, err
	}

	content := req.Content
	if content == nil {
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", req.File, err)
		}
	}

	tree, err := lang.Parse(content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	root := tree.RootNode()

	file := source.NewFile(path, content)
	target, err := symbolsearch.TargetLocation(file, root, req.Line, req.Column)
	if err != nil {
		return nil, err
	}

	finder, err := symbolsearch.NewFinder(lang)
	if err != nil {
		return nil, err
	}
	defer finder.Close()

	q := query.New()
	if err := finder.Find(ctx, file, root, symbolsearch.NewMatchHandler(target, q)); err != nil {
		return nil, fmt.Errorf("call search failed: %w", err)
	}

	if e.verbose {
		log.Printf("Located %s at %s", q.State(), target)
	}

	if q.State() == query.StateMatched && q.Definition() == nil && req.SearchDefinition {
		if err := e.searchDefinition(ctx, q, path); err != nil {
			return nil, err
		}
	}

	return newResult(target, q), nil
}

func (e *Expander) searchDefinition(ctx context.Context, q *query.Query, path string) error {
	if e.definitions == nil {
		return nil
	}

	found, err := e.definitions.Find(ctx, q.Declaration(), path)
	if errors.Is(err, definitionsearch.ErrDefinitionNotFound) {
		if e.verbose {
			log.Printf("No definition found for %s", q.Declaration().QualifiedName)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("definition search failed: %w", err)
	}

	if e.verbose {
		log.Printf("Found definition of %s in %s", q.Declaration().QualifiedName, found.File)
	}
	return q.AttachDefinition(found.Definition)
}
