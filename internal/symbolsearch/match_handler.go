package symbolsearch

import (
	"fmt"

	"github.com/mvp-joe/cexpand/internal/parsers"
	"github.com/mvp-joe/cexpand/internal/query"
	"github.com/mvp-joe/cexpand/internal/source"
)

// MatchHandler evaluates candidate calls against the cursor position.
//
// For the candidate under the cursor it:
//  1. checks that the call may be expanded where it stands (not nested in
//     another call, inside a function body),
//  2. collects DeclarationData for the later definition search; a callee
//     with no declaration leaves the query pending unless C declares it
//     implicitly,
//  3. collects CallData: extent, callee, arguments and assignee,
//  4. collects DefinitionData when the declaration is also a definition.
//
// Every other candidate is ignored. Once the query is matched or rejected
// the handler is a no-op.
type MatchHandler struct {
	target source.Location
	query  *query.Query
}

// NewMatchHandler creates a handler writing into q.
func NewMatchHandler(target source.Location, q *query.Query) *MatchHandler {
	return &MatchHandler{
		target: target,
		query:  q,
	}
}

// Done reports whether the handler has recorded its outcome.
func (h *MatchHandler) Done() bool {
	return h.query.Done()
}

// Run evaluates one candidate.
func (h *MatchHandler) Run(result *MatchResult) error {
	if h.query.Done() {
		return nil
	}
	if result == nil || result.File == nil {
		return fmt.Errorf("%w: empty match result", ErrContractViolation)
	}

	call := result.Nodes.Get(BindCall)
	callee := result.Nodes.Get(BindCallee)
	if call == nil || callee == nil {
		return fmt.Errorf("%w: call and callee must be bound", ErrContractViolation)
	}

	file := result.File
	ref, ok := referenceOf(callee, file.Content)
	if !ok {
		return fmt.Errorf("%w: callee %q is not a named function", ErrContractViolation, parsers.NodeText(callee, file.Content))
	}
	if !file.Location(int(ref.nameNode.StartByte())).Equal(h.target) {
		return nil
	}

	if reason, enclosing, safe := checkSafety(call); !safe {
		rejection := &query.Rejection{
			Reason: reason,
			Range:  nodeRange(file, call),
		}
		if enclosing != nil {
			r := nodeRange(file, enclosing)
			rejection.Enclosing = &r
		}
		return h.query.RejectUnsafe(rejection)
	}

	var declData *query.DeclarationData
	switch declaration := result.Nodes.Get(BindDeclaration); {
	case declaration != nil:
		declData = collectDeclarationData(file, declaration, result.Nodes.Get(BindRecord), ref.name)
		if declData == nil {
			return fmt.Errorf("%w: bound declaration does not declare %q", ErrContractViolation, ref.name)
		}
	case result.Implicit:
		declData = implicitDeclaration(file, ref)
	default:
		// nothing to expand into
		return nil
	}

	callData := collectCallData(file, call, callee, result.Nodes.Get(BindArguments), ref)

	var defData *query.DefinitionData
	if definition := result.Nodes.Get(BindDefinition); definition != nil {
		defData = CollectDefinition(file, definition, ref.name)
	}

	return h.query.Match(callData, declData, defData)
}
