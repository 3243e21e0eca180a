// Package parsers wraps the tree-sitter grammars used to read C and C++
// translation units.
package parsers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

// ErrUnsupportedLanguage indicates a file extension with no registered grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language pairs a tree-sitter grammar with the name used in results.
type Language struct {
	Name       string
	Extensions []string
	grammar    *sitter.Language
}

var (
	// C parses plain C sources.
	C = &Language{
		Name:       "c",
		Extensions: []string{".c"},
		grammar:    sitter.NewLanguage(c.Language()),
	}

	// Cpp parses C++ sources. Headers are parsed as C++ since the C++ grammar
	// accepts nearly all C declarations while the reverse is not true.
	Cpp = &Language{
		Name:       "cpp",
		Extensions: []string{".cc", ".cpp", ".cxx", ".c++", ".h", ".hh", ".hpp", ".hxx", ".ipp", ".inl"},
		grammar:    sitter.NewLanguage(cpp.Language()),
	}
)

var languages = []*Language{C, Cpp}

// ForPath returns the language registered for the file's extension.
func ForPath(path string) (*Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, lang := range languages {
		for _, e := range lang.Extensions {
			if e == ext {
				return lang, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, path)
}

// Grammar returns the underlying tree-sitter language.
func (l *Language) Grammar() *sitter.Language {
	return l.grammar
}

// Parse parses source and returns the syntax tree. The caller owns the tree
// and must Close it.
func (l *Language) Parse(source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(l.grammar); err != nil {
		return nil, fmt.Errorf("failed to set %s grammar: %w", l.Name, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", l.Name)
	}
	return tree, nil
}
