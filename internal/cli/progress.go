package cli

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter shows a progress bar while the definition search runs.
type CLIProgressReporter struct {
	quiet     bool
	out       io.Writer
	mu        sync.Mutex
	fileBar   *progressbar.ProgressBar
	startTime time.Time
	searched  int
}

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		out:   out,
	}
}

func (c *CLIProgressReporter) OnSearchStart(totalFiles int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.searched = 0
	if c.quiet {
		return
	}

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Searching definitions"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileSearched(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searched++
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnSearchComplete(found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}
	if c.quiet {
		return
	}

	outcome := "no definition found"
	if found {
		outcome = "definition found"
	}
	log.Printf("Searched %d files in %v: %s", c.searched, time.Since(c.startTime).Round(time.Millisecond), outcome)
}

// Searched returns the number of files reported so far.
func (c *CLIProgressReporter) Searched() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searched
}
