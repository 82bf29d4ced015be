// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants run incident analyses and read stored results.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")

// ErrMissingResultService is returned when the result service is not provided.
var ErrMissingResultService = errors.New("mcp: result service is required")
