// Package symbolsearch finds the call expression under the cursor in one
// translation unit and collects what is needed to expand it.
package symbolsearch

import (
	"errors"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/cexpand/internal/source"
)

// ErrContractViolation indicates a match whose bindings break the match
// expression's guarantees. The search cannot continue past it.
var ErrContractViolation = errors.New("match contract violation")

// Names of the nodes bound for each match.
const (
	BindCall        = "call"
	BindCallee      = "callee"
	BindArguments   = "args"
	BindDeclaration = "declaration"
	BindDefinition  = "definition"
	BindRecord      = "record"
)

// BoundNodes maps binding names to nodes of the current match.
type BoundNodes map[string]*sitter.Node

// Get returns the node bound to name, or nil.
func (b BoundNodes) Get(name string) *sitter.Node {
	return b[name]
}

// MatchResult is one candidate call handed to a MatchCallback. It is only
// valid for the duration of the callback.
type MatchResult struct {
	Nodes BoundNodes
	File  *source.File

	// Implicit reports a C call to a function the unit never declares. No
	// declaration is bound in that case.
	Implicit bool
}

// MatchCallback is invoked once per candidate call expression.
type MatchCallback interface {
	Run(result *MatchResult) error
}

// MatchCallbackFunc adapts a function to MatchCallback.
type MatchCallbackFunc func(result *MatchResult) error

// Run calls f(result).
func (f MatchCallbackFunc) Run(result *MatchResult) error {
	return f(result)
}

// completer is implemented by callbacks that can tell the Finder no further
// candidates are of interest.
type completer interface {
	Done() bool
}
