package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/cexpand/internal/expand"
	"github.com/mvp-joe/cexpand/internal/query"
	"github.com/mvp-joe/cexpand/internal/source"
)

// Test Plan for Result Output:
// - JSON output carries the status and call data
// - Text output summarizes a match with arguments, assignee, parameters and definition
// - Text output of an unsafe result prints the diagnostic and returns errUnsafeCall
// - JSON output of an unsafe result does not fail
// - Text output of not-found names the cursor position
// - Paths under the root are shown relative

func matchedResult(root string) *expand.Result {
	file := filepath.Join(root, "src/main.c")
	loc := func(line, col int) source.Location {
		return source.Location{File: file, Line: line, Column: col}
	}
	return &expand.Result{
		Status: expand.StatusMatched,
		Target: loc(4, 11),
		Call: &query.CallData{
			Range:     source.Range{Begin: loc(4, 11), End: loc(4, 20)},
			Name:      "add",
			Callee:    "add",
			Arguments: []string{"1", "x + 2"},
			Assignee:  &query.Assignee{Kind: query.AssigneeDeclaration, Name: "sum", Type: "int"},
		},
		Declaration: &query.DeclarationData{
			Name:          "add",
			QualifiedName: "add",
			Parameters:    []query.Parameter{{Name: "a", Type: "int"}, {Type: "int"}},
			ReturnType:    "int",
			Signature:     "int add(int a, int)",
			Location:      loc(1, 5),
		},
		Definition: &query.DefinitionData{
			Location:       loc(8, 5),
			ParameterNames: []string{"a", "b"},
			Locals:         []string{"tmp"},
			ReturnCount:    1,
		},
		DefinitionFile: file,
	}
}

func unsafeResult(root string) *expand.Result {
	file := filepath.Join(root, "main.c")
	enclosing := source.Range{
		Begin: source.Location{File: file, Line: 3, Column: 12},
		End:   source.Location{File: file, Line: 3, Column: 18},
	}
	return &expand.Result{
		Status:  expand.StatusUnsafe,
		Target:  source.Location{File: file, Line: 3, Column: 14},
		Reason:  query.ReasonNestedCall,
		Message: query.ReasonNestedCall.Message(),
		Rejection: &query.Rejection{
			Reason:    query.ReasonNestedCall,
			Enclosing: &enclosing,
		},
	}
}

func TestPrintResult_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, matchedResult("/project"), "json", "/project", false))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "matched", decoded["status"])
	call := decoded["call"].(map[string]interface{})
	assert.Equal(t, "add", call["name"])
	assert.Equal(t, "/project/src/main.c", decoded["definitionFile"])
}

func TestPrintResult_TextMatch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, matchedResult("/project"), "text", "/project", false))

	out := buf.String()
	assert.Contains(t, out, "matched: add at src/main.c:4:11-4:20")
	assert.Contains(t, out, "arguments: 1, x + 2")
	assert.Contains(t, out, "assignee: new variable sum of type int")
	assert.Contains(t, out, "declaration: int add(int a, int) at src/main.c:1:5")
	assert.Contains(t, out, "1. int a")
	assert.Contains(t, out, "2. int <unnamed>")
	assert.Contains(t, out, "definition: src/main.c:8:5 (1 return statements, locals: tmp)")
}

func TestPrintResult_TextMatchWithoutDefinition(t *testing.T) {
	t.Parallel()

	result := matchedResult("/project")
	result.Definition = nil
	result.DefinitionFile = ""

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, result, "text", "/project", false))
	assert.Contains(t, buf.String(), "definition: not available")
}

func TestPrintResult_TextUnsafe(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := printResult(&buf, unsafeResult("/project"), "text", "/project", false)
	assert.ErrorIs(t, err, errUnsafeCall)

	out := buf.String()
	assert.Contains(t, out, "error: cannot expand a call nested inside another call")
	assert.Contains(t, out, "at: main.c:3:14")
	assert.Contains(t, out, "inside: main.c:3:12-3:18")
}

func TestPrintResult_JSONUnsafeSucceeds(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, unsafeResult("/project"), "json", "/project", false))
	assert.Contains(t, buf.String(), `"reason": "nested-call"`)
}

func TestPrintResult_TextNotFound(t *testing.T) {
	t.Parallel()

	result := &expand.Result{
		Status: expand.StatusNotFound,
		Target: source.Location{File: "/elsewhere/main.c", Line: 2, Column: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, result, "text", "/project", false))
	assert.Contains(t, buf.String(), "not found: no call to a declared function at /elsewhere/main.c:2:1")
}
