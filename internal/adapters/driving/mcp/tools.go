package mcp

import (
	"context"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer"`
	Text     string `json:"text,omitempty" jsonschema:"text to answer from, ignored when file_path is set"`
	FilePath string `json:"file_path,omitempty" jsonschema:"absolute path of a .txt, .png, .jpeg, .jpg or .pdf file"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about pasted text or a local txt, image or PDF file",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
// Failures such as an unsupported file are returned as output with ok=false,
// not as protocol errors.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, domain.ResultView, error) {
	req := domain.AskRequest{Text: input.Text, Question: input.Question}
	if input.FilePath != "" {
		req.File = &domain.Upload{Name: filepath.Base(input.FilePath), Path: input.FilePath}
	}

	return nil, s.ports.Ask.Ask(ctx, req).View(), nil
}
