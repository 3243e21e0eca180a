// Package query holds the accumulating result of a symbol search.
package query

import (
	"errors"
	"fmt"
)

var (
	// ErrTerminalState indicates an attempt to change a query that already
	// matched or was rejected.
	ErrTerminalState = errors.New("query already completed")

	// ErrIncompleteMatch indicates a match without call or declaration data.
	ErrIncompleteMatch = errors.New("incomplete match")

	// ErrNotMatched indicates an operation that requires a matched query.
	ErrNotMatched = errors.New("query has not matched")
)

// State is the position of a Query in its lifecycle.
// Pending -> Matched | RejectedUnsafe. Both outcomes are terminal.
type State int

const (
	StatePending State = iota
	StateMatched
	StateRejectedUnsafe
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateMatched:
		return "matched"
	case StateRejectedUnsafe:
		return "unsafe"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Query is the result of searching one translation unit for the call under
// the cursor. It is written at most once.
type Query struct {
	state       State
	call        *CallData
	declaration *DeclarationData
	definition  *DefinitionData
	rejection   *Rejection
}

// New returns a pending query.
func New() *Query {
	return &Query{}
}

// State returns the current state.
func (q *Query) State() State {
	return q.state
}

// Done reports whether the query reached a terminal state.
func (q *Query) Done() bool {
	return q.state != StatePending
}

// Match records the accepted call. The definition is optional.
func (q *Query) Match(call *CallData, declaration *DeclarationData, definition *DefinitionData) error {
	if q.Done() {
		return fmt.Errorf("%w: state is %s", ErrTerminalState, q.state)
	}
	if call == nil || declaration == nil {
		return ErrIncompleteMatch
	}
	q.call = call
	q.declaration = declaration
	q.definition = definition
	q.state = StateMatched
	return nil
}

// RejectUnsafe records that the call under the cursor cannot be expanded.
func (q *Query) RejectUnsafe(rejection *Rejection) error {
	if q.Done() {
		return fmt.Errorf("%w: state is %s", ErrTerminalState, q.state)
	}
	if rejection == nil {
		return errors.New("nil rejection")
	}
	q.rejection = rejection
	q.state = StateRejectedUnsafe
	return nil
}

// AttachDefinition completes a matched query with a definition found outside
// the translation unit.
func (q *Query) AttachDefinition(definition *DefinitionData) error {
	if q.state != StateMatched {
		return ErrNotMatched
	}
	if q.definition != nil {
		return fmt.Errorf("%w: definition already present", ErrTerminalState)
	}
	q.definition = definition
	return nil
}

func (q *Query) Call() *CallData               { return q.call }
func (q *Query) Declaration() *DeclarationData { return q.declaration }
func (q *Query) Definition() *DefinitionData   { return q.definition }
func (q *Query) Rejection() *Rejection         { return q.rejection }
