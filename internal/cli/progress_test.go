package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIProgressReporter_CountsFiles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	reporter := NewCLIProgressReporter(&buf, true)

	reporter.OnSearchStart(3)
	reporter.OnFileSearched("a.c")
	reporter.OnFileSearched("b.c")
	reporter.OnSearchComplete(true)

	assert.Equal(t, 2, reporter.Searched())
	assert.Empty(t, buf.String(), "quiet reporter should not draw")
}

func TestCLIProgressReporter_WithBar(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	reporter := NewCLIProgressReporter(&buf, false)

	reporter.OnSearchStart(1)
	reporter.OnFileSearched("a.c")
	reporter.OnSearchComplete(false)

	assert.Equal(t, 1, reporter.Searched())

	// a second search starts from zero
	reporter.OnSearchStart(2)
	assert.Equal(t, 0, reporter.Searched())
	reporter.OnSearchComplete(false)
}
