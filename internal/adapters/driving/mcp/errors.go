// Package mcp provides an MCP (Model Context Protocol) server adapter for ConahGPT.
// It lets AI assistants ask questions of the Drive knowledge base and search its chunks.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
