package expand

import (
	"github.com/mvp-joe/cexpand/internal/query"
	"github.com/mvp-joe/cexpand/internal/source"
)

// Status is the outcome of locating a call.
type Status string

const (
	// StatusMatched means an expandable call was found under the cursor.
	StatusMatched Status = "matched"

	// StatusUnsafe means a call was found under the cursor but cannot be
	// expanded where it stands.
	StatusUnsafe Status = "unsafe"

	// StatusNotFound means the cursor is not on a call to a declared function.
	StatusNotFound Status = "not-found"
)

// Result is the serialized outcome of a Locate request.
type Result struct {
	Status Status          `json:"status"`
	Target source.Location `json:"target"`

	// Reason and Message are set for unsafe results.
	Reason    query.UnsafeReason `json:"reason,omitempty"`
	Message   string             `json:"message,omitempty"`
	Rejection *query.Rejection   `json:"rejection,omitempty"`

	Call           *query.CallData        `json:"call,omitempty"`
	Declaration    *query.DeclarationData `json:"declaration,omitempty"`
	Definition     *query.DefinitionData  `json:"definition,omitempty"`
	DefinitionFile string                 `json:"definitionFile,omitempty"`
}

// Expandable reports whether the result carries everything needed to inline
// the call.
func (r *Result) Expandable() bool {
	return r.Status == StatusMatched && r.Definition != nil
}

func newResult(target source.Location, q *query.Query) *Result {
	result := &Result{Target: target}

	switch q.State() {
	case query.StateMatched:
		result.Status = StatusMatched
		result.Call = q.Call()
		result.Declaration = q.Declaration()
		result.Definition = q.Definition()
		if result.Definition != nil {
			result.DefinitionFile = result.Definition.Location.File
		}
	case query.StateRejectedUnsafe:
		rejection := q.Rejection()
		result.Status = StatusUnsafe
		result.Reason = rejection.Reason
		result.Message = rejection.Reason.Message()
		result.Rejection = rejection
	default:
		result.Status = StatusNotFound
	}

	return result
}
