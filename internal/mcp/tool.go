package mcp

// Implementation Plan:
// 1. AddLocateCallTool - composable tool registration function
// 2. createLocateCallHandler - handler factory that captures the locator
// 3. Parse file/line/column/search_definition from MCP arguments
// 4. Resolve relative files against the project root and run Locate
// 5. Return the Result as JSON text (mcp-go convention)

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/cexpand/internal/expand"
	"github.com/mvp-joe/cexpand/internal/parsers"
	"github.com/mvp-joe/cexpand/internal/source"
)

// CallLocator finds the call under a cursor.
type CallLocator interface {
	Locate(ctx context.Context, req expand.Request) (*expand.Result, error)
}

// AddLocateCallTool registers the locate_call tool with an MCP server.
// Relative file arguments are resolved against projectRoot.
func AddLocateCallTool(s *server.MCPServer, locator CallLocator, projectRoot string, searchDefault bool) {
	tool := mcp.NewTool(
		"locate_call",
		mcp.WithDescription("Find the C or C++ function call at a cursor position and report whether it can be expanded inline. Returns the call range, argument texts, how the result is assigned, the callee's declaration with ordered parameters, and its definition body when available."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path to the source file, absolute or relative to the project root")),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("1-based line of the cursor")),
		mcp.WithNumber("column",
			mcp.Required(),
			mcp.Description("1-based byte column of the cursor; anywhere inside the callee name works")),
		mcp.WithBoolean("search_definition",
			mcp.Description("Search other project files for the callee's definition when it is not in the same file")),
	)

	s.AddTool(tool, createLocateCallHandler(locator, projectRoot, searchDefault))
}

// createLocateCallHandler creates the handler function for the locate_call tool.
func createLocateCallHandler(locator CallLocator, projectRoot string, searchDefault bool) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := toolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		file, err := parseStringArg(argsMap, "file", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		line, err := parsePositionArg(argsMap, "line")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		column, err := parsePositionArg(argsMap, "column")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if !filepath.IsAbs(file) {
			file = filepath.Join(projectRoot, file)
		}

		result, err := locator.Locate(ctx, expand.Request{
			File:             file,
			Line:             line,
			Column:           column,
			SearchDefinition: parseBoolArg(argsMap, "search_definition", searchDefault),
		})
		if err != nil {
			if isInputError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, fmt.Errorf("locate failed: %w", err)
		}

		return jsonResult(result)
	}
}

// isInputError reports whether err was caused by the caller's arguments
// rather than by the server.
func isInputError(err error) bool {
	return errors.Is(err, source.ErrInvalidLocation) ||
		errors.Is(err, parsers.ErrUnsupportedLanguage) ||
		errors.Is(err, os.ErrNotExist)
}
