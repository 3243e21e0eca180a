package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/cexpand/internal/config"
	"github.com/mvp-joe/cexpand/internal/expand"
)

// Test Plan for Locate Command:
// - locate prints a JSON result with the definition found in another file
// - locate --format text on a nested call prints the diagnostic and fails with errUnsafeCall
// - locate rejects an unknown --format
// - newExpander without definition search never looks at other files

// executeRoot runs the root command; the flag variables are package globals,
// so these tests do not run in parallel.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		locateFormat = ""
		locateNoDefinitionSearch = false
		locateProgress = false
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLocateCommand_JSONWithDefinitionSearch(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/main.c": "int add(int x, int y);\nint main(void) {\n  int s = add(1, 2);\n  return s;\n}\n",
		"src/util.c": "int add(int a, int b) { return a + b; }\n",
	})

	out, err := executeRoot(t, "locate", filepath.Join(dir, "src/main.c"),
		"--line", "3", "--column", "11", "--root", dir, "--format", "json")
	require.NoError(t, err)

	var result expand.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, expand.StatusMatched, result.Status)
	assert.Equal(t, filepath.Join(dir, "src/util.c"), result.DefinitionFile)
	require.NotNil(t, result.Call)
	assert.Equal(t, []string{"1", "2"}, result.Call.Arguments)
}

func TestLocateCommand_TextUnsafe(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"main.c": "int f(void);\nint h(int x);\nvoid g() { h(f()); }\n",
	})

	out, err := executeRoot(t, "locate", filepath.Join(dir, "main.c"),
		"--line", "3", "--column", "14", "--root", dir, "--format", "text", "--no-definition-search")
	assert.ErrorIs(t, err, errUnsafeCall)
	assert.Contains(t, out, "cannot expand a call nested inside another call")
}

func TestLocateCommand_RejectsUnknownFormat(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"main.c": "void f(void);\n",
	})

	_, err := executeRoot(t, "locate", filepath.Join(dir, "main.c"),
		"--line", "1", "--column", "1", "--root", dir, "--format", "xml")
	assert.ErrorIs(t, err, config.ErrInvalidFormat)
}

func TestNewExpander_WithoutDefinitionSearch(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, map[string]string{
		"main.c": "int add(int x, int y);\nint main(void) { return add(1, 2); }\n",
		"util.c": "int add(int a, int b) { return a + b; }\n",
	})

	expander, searcher, err := newExpander(dir, config.Default(), false, nil)
	require.NoError(t, err)
	assert.Nil(t, searcher)

	result, err := expander.Locate(context.Background(), expand.Request{
		File:             filepath.Join(dir, "main.c"),
		Line:             2,
		Column:           25,
		SearchDefinition: false,
	})
	require.NoError(t, err)
	assert.Equal(t, expand.StatusMatched, result.Status)
	assert.Nil(t, result.Definition)
}
