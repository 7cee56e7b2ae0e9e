// ABOUTME: MCP server implementation
// ABOUTME: Exposes Google Sheets, Docs, and Drive operations as MCP tools

package server

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/harper/workspace-mcp/pkg/auth"
	"github.com/harper/workspace-mcp/pkg/docs"
	"github.com/harper/workspace-mcp/pkg/drive"
	"github.com/harper/workspace-mcp/pkg/sheets"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for Google Workspace document access
type Server struct {
	auth *auth.Manager
	mcp  *server.MCPServer

	// Services are built lazily on the first call that needs them, so the
	// process can start (and list tools) before a token file exists.
	mu     sync.Mutex
	sheets *sheets.Service
	docs   *docs.Service
	drive  *drive.Service
}

// New creates a new MCP server. The auth manager is the single owner of the
// credential lifecycle; it is passed in rather than reached for globally so
// tests can provide their own.
func New(authMgr *auth.Manager) *Server {
	s := &Server{auth: authMgr}

	s.mcp = server.NewMCPServer(
		"workspace-mcp",
		"1.0.0",
	)

	s.registerTools()
	s.registerPrompts()
	s.registerResources()

	return s
}

// NewWithServices creates a server with pre-built API services, bypassing
// the auth manager's client construction. Used by tests and by callers that
// manage their own HTTP client.
func NewWithServices(authMgr *auth.Manager, sheetsSvc *sheets.Service, docsSvc *docs.Service, driveSvc *drive.Service) *Server {
	s := New(authMgr)
	s.sheets = sheetsSvc
	s.docs = docsSvc
	s.drive = driveSvc
	return s
}

// ensureServices builds the API services on first use, obtaining the
// authenticated client from the auth manager. A missing or malformed token
// file surfaces here, per call, until resolved externally.
func (s *Server) ensureServices(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sheets != nil && s.docs != nil && s.drive != nil {
		return nil
	}

	client, err := s.auth.Client(ctx)
	if err != nil {
		return err
	}

	sheetsSvc, err := sheets.NewService(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to create Sheets service: %w", err)
	}

	docsSvc, err := docs.NewService(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to create Docs service: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to create Drive service: %w", err)
	}

	s.sheets = sheetsSvc
	s.docs = docsSvc
	s.drive = driveSvc
	return nil
}

// registerTools registers all available tools
func (s *Server) registerTools() {
	// Sheets tools
	s.mcp.AddTool(mcp.Tool{
		Name:        "read_sheet",
		Description: "Read data from a Google Sheet. If no range is given, reads the entire first sheet. Returns a markdown table.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"spreadsheet_id": map[string]string{"type": "string", "description": "The spreadsheet ID (from the URL)"},
				"range":          map[string]string{"type": "string", "description": "A1 notation range to read (e.g., 'Sheet1!A1:D10'). Optional - defaults to the entire first sheet."},
			},
			Required: []string{"spreadsheet_id"},
		},
	}, s.handleReadSheet)

	s.mcp.AddTool(mcp.Tool{
		Name:        "list_sheets",
		Description: "List all sheets (tabs) in a spreadsheet with their row/column extents",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"spreadsheet_id": map[string]string{"type": "string", "description": "The spreadsheet ID (from the URL)"},
			},
			Required: []string{"spreadsheet_id"},
		},
	}, s.handleListSheets)

	s.mcp.AddTool(mcp.Tool{
		Name:        "append_to_sheet",
		Description: "Append rows after the last populated row of the table at the given range. Values are parsed as if typed by a user (formulas evaluated).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"spreadsheet_id": map[string]string{"type": "string", "description": "The spreadsheet ID (from the URL)"},
				"range":          map[string]string{"type": "string", "description": "A1 notation range anchoring the table (e.g., 'Sheet1!A:D')"},
				"values": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
					"description": "2D array of cell values, one inner array per row",
				},
			},
			Required: []string{"spreadsheet_id", "range", "values"},
		},
	}, s.handleAppendToSheet)

	s.mcp.AddTool(mcp.Tool{
		Name:        "update_sheet",
		Description: "Overwrite the given range with the given values. Values are parsed as if typed by a user (formulas evaluated).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"spreadsheet_id": map[string]string{"type": "string", "description": "The spreadsheet ID (from the URL)"},
				"range":          map[string]string{"type": "string", "description": "A1 notation range to overwrite (e.g., 'Sheet1!A1:D10')"},
				"values": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
					"description": "2D array of cell values, one inner array per row",
				},
			},
			Required: []string{"spreadsheet_id", "range", "values"},
		},
	}, s.handleUpdateSheet)

	// Docs tools
	s.mcp.AddTool(mcp.Tool{
		Name:        "read_doc",
		Description: "Read the text content of a Google Doc",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]string{"type": "string", "description": "The document ID (from the URL)"},
			},
			Required: []string{"document_id"},
		},
	}, s.handleReadDoc)

	s.mcp.AddTool(mcp.Tool{
		Name:        "append_to_doc",
		Description: "Add text to a Google Doc. Note: content is inserted at the start of the document body, not the end.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]string{"type": "string", "description": "The document ID (from the URL)"},
				"text":        map[string]string{"type": "string", "description": "The text to insert"},
			},
			Required: []string{"document_id", "text"},
		},
	}, s.handleAppendToDoc)

	// Drive tools
	s.mcp.AddTool(mcp.Tool{
		Name:        "search_files",
		Description: "Search Google Drive for spreadsheets and documents by name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]string{"type": "string", "description": "Text to match against file names"},
				"type":  map[string]string{"type": "string", "description": "Restrict results: 'spreadsheet' or 'document'. Optional."},
				"page_size": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results (default: 20)",
				},
			},
			Required: []string{"query"},
		},
	}, s.handleSearchFiles)

	// Auth tools
	s.mcp.AddTool(mcp.Tool{
		Name:        "auth_info",
		Description: "Get OAuth token metadata (expiry, scopes) without making API calls",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"noop": map[string]interface{}{
					"type":        "boolean",
					"description": "No arguments needed; you can omit this",
				},
			},
		},
	}, s.handleAuthInfo)
}

// Tool handlers. Each follows the same sequence: construct typed arguments
// (fail closed, no network), execute against the API, classify the outcome.

func (s *Server) handleReadSheet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseReadSheetArgs(request)
	if err != nil {
		return invalidParamsResult(err), nil
	}

	if err := s.ensureServices(ctx); err != nil {
		return errorResult(err), nil
	}

	rows, err := s.sheets.Read(ctx, args.SpreadsheetID, args.Range)
	if err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(sheets.RenderTable(rows)), nil
}

func (s *Server) handleListSheets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseListSheetsArgs(request)
	if err != nil {
		return invalidParamsResult(err), nil
	}

	if err := s.ensureServices(ctx); err != nil {
		return errorResult(err), nil
	}

	tabs, err := s.sheets.ListSheets(ctx, args.SpreadsheetID)
	if err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(sheets.RenderTabs(tabs)), nil
}

func (s *Server) handleAppendToSheet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseWriteSheetArgs(request)
	if err != nil {
		return invalidParamsResult(err), nil
	}

	if err := s.ensureServices(ctx); err != nil {
		return errorResult(err), nil
	}

	summary, err := s.sheets.Append(ctx, args.SpreadsheetID, args.Range, args.Values)
	if err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(sheets.RenderUpdateSummary("Appended", summary)), nil
}

func (s *Server) handleUpdateSheet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseWriteSheetArgs(request)
	if err != nil {
		return invalidParamsResult(err), nil
	}

	if err := s.ensureServices(ctx); err != nil {
		return errorResult(err), nil
	}

	summary, err := s.sheets.Update(ctx, args.SpreadsheetID, args.Range, args.Values)
	if err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(sheets.RenderUpdateSummary("Updated", summary)), nil
}

func (s *Server) handleReadDoc(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseReadDocArgs(request)
	if err != nil {
		return invalidParamsResult(err), nil
	}

	if err := s.ensureServices(ctx); err != nil {
		return errorResult(err), nil
	}

	doc, err := s.docs.Read(ctx, args.DocumentID)
	if err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(docs.RenderDocument(doc)), nil
}

func (s *Server) handleAppendToDoc(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseAppendToDocArgs(request)
	if err != nil {
		return invalidParamsResult(err), nil
	}

	if err := s.ensureServices(ctx); err != nil {
		return errorResult(err), nil
	}

	if err := s.docs.Append(ctx, args.DocumentID, args.Text); err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added text to document %s", args.DocumentID)), nil
}

func (s *Server) handleSearchFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseSearchFilesArgs(request)
	if err != nil {
		return invalidParamsResult(err), nil
	}

	if err := s.ensureServices(ctx); err != nil {
		return errorResult(err), nil
	}

	var mimeType string
	switch args.Type {
	case "spreadsheet":
		mimeType = drive.MimeSpreadsheet
	case "document":
		mimeType = drive.MimeDocument
	}

	files, err := s.drive.Search(ctx, args.Query, mimeType, args.PageSize)
	if err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(drive.RenderFiles(files)), nil
}

// AuthInfoResponse is the response for the auth_info tool
type AuthInfoResponse struct {
	Valid       bool     `json:"valid"`
	AccessToken string   `json:"access_token,omitempty"`
	Expiry      string   `json:"expiry,omitempty"`
	ExpiresIn   string   `json:"expires_in,omitempty"`
	HasRefresh  bool     `json:"has_refresh"`
	Scopes      []string `json:"scopes,omitempty"`
	Message     string   `json:"message,omitempty"`
}

func (s *Server) handleAuthInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.auth == nil {
		return mcp.NewToolResultJSON(AuthInfoResponse{
			Valid:   false,
			Message: "auth manager not initialized",
		})
	}

	info, err := s.auth.TokenInfo()
	if err != nil {
		return mcp.NewToolResultJSON(AuthInfoResponse{
			Valid:   false,
			Message: fmt.Sprintf("failed to get token info: %v", err),
		})
	}

	resp := AuthInfoResponse{
		Valid:       info.Valid,
		AccessToken: info.AccessToken,
		HasRefresh:  info.HasRefresh,
		Scopes:      info.Scopes,
	}

	if !info.Expiry.IsZero() {
		resp.Expiry = info.Expiry.Format(time.RFC3339)
		resp.ExpiresIn = info.ExpiresIn.Round(time.Second).String()
	}

	return mcp.NewToolResultJSON(resp)
}

// ListTools returns all registered tools
func (s *Server) ListTools() []mcp.Tool {
	serverTools := s.mcp.ListTools()
	tools := make([]mcp.Tool, 0, len(serverTools))
	for _, st := range serverTools {
		tools = append(tools, st.Tool)
	}
	return tools
}

// Serve starts the MCP server with stdio transport. It returns when the
// context is canceled or stdin closes.
func (s *Server) Serve(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}
