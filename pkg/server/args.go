// ABOUTME: Typed argument structs for each tool
// ABOUTME: Fail-closed construction from the untyped MCP argument map

package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Each tool's expected argument shape is an explicit struct with a parse
// function that fails closed: a missing required field or a wrongly typed
// value never reaches the Workspace API. Only presence and primitive type
// are checked here; whether an ID actually exists is the API's problem.

type readSheetArgs struct {
	SpreadsheetID string
	Range         string // optional; empty means first tab
}

type listSheetsArgs struct {
	SpreadsheetID string
}

type readDocArgs struct {
	DocumentID string
}

type appendToDocArgs struct {
	DocumentID string
	Text       string
}

type writeSheetArgs struct {
	SpreadsheetID string
	Range         string
	Values        [][]string
}

type searchFilesArgs struct {
	Query    string
	Type     string // optional: "spreadsheet" or "document"
	PageSize int64
}

func parseReadSheetArgs(request mcp.CallToolRequest) (readSheetArgs, error) {
	args, err := argumentMap(request)
	if err != nil {
		return readSheetArgs{}, err
	}

	id, err := requireString(args, "spreadsheet_id")
	if err != nil {
		return readSheetArgs{}, err
	}

	rng, err := optionalString(args, "range")
	if err != nil {
		return readSheetArgs{}, err
	}

	return readSheetArgs{SpreadsheetID: id, Range: rng}, nil
}

func parseListSheetsArgs(request mcp.CallToolRequest) (listSheetsArgs, error) {
	args, err := argumentMap(request)
	if err != nil {
		return listSheetsArgs{}, err
	}

	id, err := requireString(args, "spreadsheet_id")
	if err != nil {
		return listSheetsArgs{}, err
	}

	return listSheetsArgs{SpreadsheetID: id}, nil
}

func parseReadDocArgs(request mcp.CallToolRequest) (readDocArgs, error) {
	args, err := argumentMap(request)
	if err != nil {
		return readDocArgs{}, err
	}

	id, err := requireString(args, "document_id")
	if err != nil {
		return readDocArgs{}, err
	}

	return readDocArgs{DocumentID: id}, nil
}

func parseAppendToDocArgs(request mcp.CallToolRequest) (appendToDocArgs, error) {
	args, err := argumentMap(request)
	if err != nil {
		return appendToDocArgs{}, err
	}

	id, err := requireString(args, "document_id")
	if err != nil {
		return appendToDocArgs{}, err
	}

	text, err := requireString(args, "text")
	if err != nil {
		return appendToDocArgs{}, err
	}

	return appendToDocArgs{DocumentID: id, Text: text}, nil
}

// parseWriteSheetArgs covers append_to_sheet and update_sheet, which share
// a shape: spreadsheet id, range, and a values matrix.
func parseWriteSheetArgs(request mcp.CallToolRequest) (writeSheetArgs, error) {
	args, err := argumentMap(request)
	if err != nil {
		return writeSheetArgs{}, err
	}

	id, err := requireString(args, "spreadsheet_id")
	if err != nil {
		return writeSheetArgs{}, err
	}

	rng, err := requireString(args, "range")
	if err != nil {
		return writeSheetArgs{}, err
	}

	values, err := requireMatrix(args, "values")
	if err != nil {
		return writeSheetArgs{}, err
	}

	return writeSheetArgs{SpreadsheetID: id, Range: rng, Values: values}, nil
}

func parseSearchFilesArgs(request mcp.CallToolRequest) (searchFilesArgs, error) {
	args, err := argumentMap(request)
	if err != nil {
		return searchFilesArgs{}, err
	}

	query, err := requireString(args, "query")
	if err != nil {
		return searchFilesArgs{}, err
	}

	fileType, err := optionalString(args, "type")
	if err != nil {
		return searchFilesArgs{}, err
	}
	switch fileType {
	case "", "spreadsheet", "document":
	default:
		return searchFilesArgs{}, fmt.Errorf("parameter type must be 'spreadsheet' or 'document'")
	}

	pageSize := int64(request.GetInt("page_size", 0))

	return searchFilesArgs{Query: query, Type: fileType, PageSize: pageSize}, nil
}

// argumentMap extracts the untyped argument mapping from the request.
func argumentMap(request mcp.CallToolRequest) (map[string]interface{}, error) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("arguments must be an object")
	}
	return args, nil
}

func requireString(args map[string]interface{}, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string", key)
	}
	if value == "" {
		return "", fmt.Errorf("parameter %s must not be empty", key)
	}
	return value, nil
}

func optionalString(args map[string]interface{}, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string", key)
	}
	return value, nil
}

// requireMatrix decodes the values parameter: an array of rows, each an
// array of cell strings. Any other cell type fails the whole call.
func requireMatrix(args map[string]interface{}, key string) ([][]string, error) {
	raw, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("missing required parameter: %s", key)
	}

	rawRows, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("parameter %s must be an array of rows", key)
	}
	if len(rawRows) == 0 {
		return nil, fmt.Errorf("parameter %s must contain at least one row", key)
	}

	rows := make([][]string, len(rawRows))
	for i, rawRow := range rawRows {
		cells, ok := rawRow.([]interface{})
		if !ok {
			return nil, fmt.Errorf("parameter %s row %d must be an array of strings", key, i)
		}
		row := make([]string, len(cells))
		for j, cell := range cells {
			value, ok := cell.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %s row %d column %d must be a string", key, i, j)
			}
			row[j] = value
		}
		rows[i] = row
	}

	return rows, nil
}
