// ABOUTME: MCP prompt templates for common Workspace document workflows
// ABOUTME: Pre-defined prompts for sheet analysis and doc note-taking

package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerPrompts registers all MCP prompts
func (s *Server) registerPrompts() {
	// Sheet summary prompt
	s.mcp.AddPrompt(
		mcp.NewPrompt(
			"summarize_sheet",
			mcp.WithPromptDescription("Read a spreadsheet and summarize its contents"),
			mcp.WithArgument("spreadsheet_id", mcp.ArgumentDescription("The spreadsheet ID to summarize"), mcp.RequiredArgument()),
			mcp.WithArgument("focus", mcp.ArgumentDescription("Optional aspect to focus on (totals/trends/anomalies)")),
		),
		s.handleSummarizeSheetPrompt,
	)

	// Doc note-taking prompt
	s.mcp.AddPrompt(
		mcp.NewPrompt(
			"add_doc_note",
			mcp.WithPromptDescription("Draft a dated note and add it to a document"),
			mcp.WithArgument("document_id", mcp.ArgumentDescription("The document ID to add the note to"), mcp.RequiredArgument()),
			mcp.WithArgument("topic", mcp.ArgumentDescription("What the note is about"), mcp.RequiredArgument()),
		),
		s.handleAddDocNotePrompt,
	)
}

func (s *Server) handleSummarizeSheetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	spreadsheetID := request.Params.Arguments["spreadsheet_id"]
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet_id argument is required")
	}

	focus := request.Params.Arguments["focus"]

	var b strings.Builder
	fmt.Fprintf(&b, "Use the list_sheets tool on spreadsheet %s to see its tabs, ", spreadsheetID)
	b.WriteString("then read_sheet on each tab that looks relevant. ")
	b.WriteString("Summarize the data: what the columns mean, how many rows there are, and anything notable.")
	if focus != "" {
		fmt.Fprintf(&b, " Pay particular attention to %s.", focus)
	}

	return &mcp.GetPromptResult{
		Description: "Spreadsheet summary workflow",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(b.String()),
			},
		},
	}, nil
}

func (s *Server) handleAddDocNotePrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	documentID := request.Params.Arguments["document_id"]
	if documentID == "" {
		return nil, fmt.Errorf("document_id argument is required")
	}

	topic := request.Params.Arguments["topic"]
	if topic == "" {
		return nil, fmt.Errorf("topic argument is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Read document %s with read_doc to understand its style and context. ", documentID)
	fmt.Fprintf(&b, "Then draft a short dated note about %s and add it with append_to_doc. ", topic)
	b.WriteString("Note that append_to_doc places text at the top of the document body.")

	return &mcp.GetPromptResult{
		Description: "Document note workflow",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(b.String()),
			},
		},
	}, nil
}
