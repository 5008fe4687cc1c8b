// Package mcp provides an MCP (Model Context Protocol) server adapter for askdoc.
// It lets MCP clients ask questions about local text, image and PDF files.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
