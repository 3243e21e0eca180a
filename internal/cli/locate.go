package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cexpand/internal/config"
	"github.com/mvp-joe/cexpand/internal/definitionsearch"
	"github.com/mvp-joe/cexpand/internal/expand"
)

var (
	locateLine               int
	locateColumn             int
	locateFormat             string
	locateRoot               string
	locateNoDefinitionSearch bool
	locateProgress           bool
)

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate <file>",
	Short: "Find the call under a cursor and report how to expand it",
	Long: `Find the function call at --line/--column in a C or C++ file.

The result is one of:
  matched    the call can be expanded; its declaration and, when found, its
             definition are included
  unsafe     the call is nested inside another call or outside a function body
  not-found  the cursor is not on a call to a declared function

When the callee is only declared in the file, the project under --root is
searched for its definition unless --no-definition-search is given.

Example:
  cexpand locate src/main.c --line 42 --column 10
  cexpand locate src/main.c --line 42 --column 10 --format text`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().IntVarP(&locateLine, "line", "l", 0, "1-based line of the cursor")
	locateCmd.Flags().IntVarP(&locateColumn, "column", "c", 0, "1-based byte column of the cursor")
	locateCmd.Flags().StringVarP(&locateFormat, "format", "f", "", "output format: json or text (default from config)")
	locateCmd.Flags().StringVar(&locateRoot, "root", "", "project root for config and definition search (default is the current directory)")
	locateCmd.Flags().BoolVar(&locateNoDefinitionSearch, "no-definition-search", false, "do not search other files for the definition")
	locateCmd.Flags().BoolVar(&locateProgress, "progress", false, "show progress while searching for the definition")
	locateCmd.MarkFlagRequired("line")
	locateCmd.MarkFlagRequired("column")

	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	rootDir, err := projectRoot(locateRoot)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if locateFormat != "" {
		format = strings.ToLower(locateFormat)
		if format != config.FormatJSON && format != config.FormatText {
			return fmt.Errorf("%w: %q", config.ErrInvalidFormat, locateFormat)
		}
	}

	searchDefinitions := cfg.Search.Definitions && !locateNoDefinitionSearch
	var progress definitionsearch.ProgressReporter
	if locateProgress {
		progress = NewCLIProgressReporter(cmd.ErrOrStderr(), false)
	}

	expander, searcher, err := newExpander(rootDir, cfg, searchDefinitions, progress)
	if err != nil {
		return err
	}
	if searcher != nil {
		defer searcher.Close()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := expander.Locate(ctx, expand.Request{
		File:             args[0],
		Line:             locateLine,
		Column:           locateColumn,
		SearchDefinition: searchDefinitions,
	})
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), result, format, rootDir, cfg.Output.Color)
}

// printResult writes result and returns errUnsafeCall for unsafe text results.
func printResult(w io.Writer, result *expand.Result, format, rootDir string, useColor bool) error {
	printer := newResultPrinter(format, rootDir, useColor)
	if err := printer.Print(w, result); err != nil {
		return err
	}
	if format == config.FormatText && result.Status == expand.StatusUnsafe {
		return errUnsafeCall
	}
	return nil
}

// newExpander builds the Expander shared by locate and mcp. The searcher is
// nil when definition search is off; otherwise the caller must Close it.
func newExpander(rootDir string, cfg *config.Config, searchDefinitions bool, progress definitionsearch.ProgressReporter) (*expand.Expander, *definitionsearch.Searcher, error) {
	opts := expand.Options{Verbose: verbose}
	if !searchDefinitions {
		return expand.New(opts), nil, nil
	}

	searcher, err := definitionsearch.NewSearcher(definitionsearch.Options{
		Root:      rootDir,
		Sources:   cfg.Paths.Sources,
		Ignore:    cfg.Paths.Ignore,
		Workers:   cfg.Search.Workers,
		CacheSize: cfg.Search.CacheSize,
		MaxFiles:  cfg.Search.MaxFiles,
		Progress:  progress,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create definition searcher: %w", err)
	}

	opts.Definitions = searcher
	return expand.New(opts), searcher, nil
}

func projectRoot(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return wd, nil
}
