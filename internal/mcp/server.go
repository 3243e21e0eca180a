package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
)

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name        string
	Version     string
	ProjectPath string

	// SearchDefinitions is the default for the tool's search_definition argument.
	SearchDefinitions bool
}

// Server manages the MCP server lifecycle.
type Server struct {
	config *ServerConfig
	mcp    *server.MCPServer
}

// NewServer creates an MCP server exposing locate_call backed by locator.
func NewServer(config *ServerConfig, locator CallLocator) (*Server, error) {
	if config == nil {
		return nil, fmt.Errorf("server config is required")
	}
	if locator == nil {
		return nil, fmt.Errorf("call locator is required")
	}

	name := config.Name
	if name == "" {
		name = "cexpand-mcp"
	}
	version := config.Version
	if version == "" {
		version = "dev"
	}

	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	AddLocateCallTool(mcpServer, locator, config.ProjectPath, config.SearchDefinitions)

	return &Server{
		config: config,
		mcp:    mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio (project %s)...", s.config.ProjectPath)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
