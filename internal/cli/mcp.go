package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cexpand/internal/config"
	"github.com/mvp-joe/cexpand/internal/definitionsearch"
	"github.com/mvp-joe/cexpand/internal/mcp"
	"github.com/mvp-joe/cexpand/internal/watcher"
)

var (
	mcpRoot    string
	mcpNoWatch bool
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server exposing call location as a tool",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can ask
which call sits under a cursor and whether it can be expanded inline.

The MCP server:
- Provides the locate_call tool (file, line, column, search_definition)
- Keeps parsed files cached between calls for fast definition search
- Watches the project and reindexes changed sources in the background
- Communicates via stdio (standard MCP transport)

Example:
  cexpand mcp --root /path/to/project`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpRoot, "root", "", "project root (default is the current directory)")
	mcpCmd.Flags().BoolVar(&mcpNoWatch, "no-watch", false, "do not watch the project for changes")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rootDir, err := projectRoot(mcpRoot)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "cexpand MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project Root: %s\n", rootDir)
	fmt.Fprintf(os.Stderr, "Definition Search: %v\n\n", cfg.Search.Definitions)

	// requests may opt in even when the configured default is off
	expander, searcher, err := newExpander(rootDir, cfg, true, nil)
	if err != nil {
		return err
	}
	defer searcher.Close()

	if !mcpNoWatch {
		stop, err := watchSources(ctx, rootDir, cfg, searcher)
		if err != nil {
			log.Printf("Warning: file watching disabled: %v", err)
		} else {
			defer stop()
		}
	}

	server, err := mcp.NewServer(&mcp.ServerConfig{
		Name:              "cexpand-mcp",
		Version:           Version,
		ProjectPath:       rootDir,
		SearchDefinitions: cfg.Search.Definitions,
	}, expander)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

// watchSources reindexes changed source files so the next definition search
// does not pay for parsing them.
func watchSources(ctx context.Context, rootDir string, cfg *config.Config, searcher *definitionsearch.Searcher) (func(), error) {
	discovery := searcher.Discovery()
	fw, err := watcher.NewFileWatcher([]string{rootDir}, watcher.Options{
		Extensions: cfg.GetSourceExtensions(),
		SkipDir:    discovery.IgnoresDir,
	})
	if err != nil {
		return nil, err
	}

	err = fw.Start(ctx, func(files []string) {
		if verbose {
			log.Printf("Reindexing %d changed files", len(files))
		}
		if err := searcher.Warm(ctx, files); err != nil {
			log.Printf("Warning: reindex failed: %v", err)
		}
	})
	if err != nil {
		fw.Stop()
		return nil, err
	}

	return func() { fw.Stop() }, nil
}
