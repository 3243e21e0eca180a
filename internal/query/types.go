package query

import "github.com/mvp-joe/cexpand/internal/source"

// AssigneeKind classifies the destination of a call's result.
type AssigneeKind string

const (
	// AssigneeDeclaration is a new variable initialized with the call: int x = f();
	AssigneeDeclaration AssigneeKind = "declaration"

	// AssigneeAssignment is an existing variable assigned the call: x = f();
	AssigneeAssignment AssigneeKind = "assignment"

	// AssigneeReturn is a return statement returning the call: return f();
	AssigneeReturn AssigneeKind = "return"
)

// Assignee describes where the result of the call is bound.
type Assignee struct {
	Kind AssigneeKind `json:"kind"`

	// Name is the declared variable (declaration) or the assigned expression (assignment).
	Name string `json:"name,omitempty"`

	// Type is the declared type of a new variable, including pointer and array suffixes.
	Type string `json:"type,omitempty"`

	// Operator is the assignment operator, "=" or a compound form such as "+=".
	Operator string `json:"operator,omitempty"`
}

// MemberBase is the object expression of a member call such as obj.m() or p->m().
type MemberBase struct {
	Text     string `json:"text"`
	Operator string `json:"operator"`
}

// CallData holds the facts about the call under the cursor.
type CallData struct {
	// Range spans the whole call expression, callee through closing parenthesis.
	Range source.Range `json:"range"`

	// Name is the unqualified callee name.
	Name string `json:"name"`

	// Callee is the callee expression as spelled, e.g. "ns::f" or "obj.m".
	Callee string `json:"callee"`

	Base      *MemberBase `json:"base,omitempty"`
	Arguments []string    `json:"arguments"`
	Assignee  *Assignee   `json:"assignee,omitempty"`
}

// Parameter is one declared parameter. Name is empty for unnamed parameters.
type Parameter struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
}

// DeclarationData holds the facts about the callee's declaration.
type DeclarationData struct {
	Name          string          `json:"name"`
	QualifiedName string          `json:"qualifiedName"`
	Parameters    []Parameter     `json:"parameters"`
	Variadic      bool            `json:"variadic,omitempty"`
	ReturnType    string          `json:"returnType,omitempty"`
	IsMethod      bool            `json:"isMethod"`
	IsStatic      bool            `json:"isStatic,omitempty"`
	Record        string          `json:"record,omitempty"`
	IsConst       bool            `json:"isConst,omitempty"`
	Signature     string          `json:"signature"`
	Location      source.Location `json:"location"`

	// Implicit marks a C function called without a prior declaration. Its
	// parameters are unknown and Location is the first call.
	Implicit bool `json:"implicit,omitempty"`
}

// ParameterNames returns the declared parameter names in order.
func (d *DeclarationData) ParameterNames() []string {
	names := make([]string, len(d.Parameters))
	for i, p := range d.Parameters {
		names[i] = p.Name
	}
	return names
}

// DefinitionData holds the facts about a function body that can be inlined.
type DefinitionData struct {
	Location source.Location `json:"location"`
	Range    source.Range    `json:"range"`
	Body     source.Range    `json:"body"`
	BodyText string          `json:"bodyText"`

	// ParameterNames are the parameter names as spelled by the definition,
	// which may differ from the declaration's.
	ParameterNames []string `json:"parameterNames"`

	// Locals are the variables declared inside the body.
	Locals []string `json:"locals"`

	ReturnCount int    `json:"returnCount"`
	IsInClass   bool   `json:"isInClass,omitempty"`
	Record      string `json:"record,omitempty"`
}

// UnsafeReason names why a call cannot be expanded where it stands.
type UnsafeReason string

const (
	// ReasonNestedCall marks a call that is a sub-expression of another call.
	ReasonNestedCall UnsafeReason = "nested-call"

	// ReasonOutsideFunctionBody marks a call outside any function body, such
	// as a file-scope initializer or a default argument.
	ReasonOutsideFunctionBody UnsafeReason = "outside-function-body"
)

// Message returns the user-facing diagnostic for the reason.
func (r UnsafeReason) Message() string {
	switch r {
	case ReasonNestedCall:
		return "cannot expand a call nested inside another call"
	case ReasonOutsideFunctionBody:
		return "cannot expand a call outside of a function body"
	}
	return "cannot expand the call at this position"
}

// Rejection records an unsafe call found under the cursor.
type Rejection struct {
	Reason UnsafeReason `json:"reason"`
	Range  source.Range `json:"range"`

	// Enclosing is the range of the enclosing call or object construction
	// for nested calls.
	Enclosing *source.Range `json:"enclosing,omitempty"`
}
