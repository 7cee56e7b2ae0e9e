// ABOUTME: Tests for the Sheets service against a fake API backend
// ABOUTME: Validates request shapes and response flattening

package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	svc, err := NewService(context.Background(), nil,
		option.WithEndpoint(ts.URL),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	return svc
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func TestService_Read_ExplicitRange(t *testing.T) {
	var requests []string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)
		writeJSON(t, w, map[string]interface{}{
			"range":  "Sheet1!A1:C2",
			"values": [][]interface{}{{"name", "count", "active"}, {"alpha", 2, true}},
		})
	}))

	rows, err := svc.Read(context.Background(), "sheet-123", "Sheet1!A1:C2")
	require.NoError(t, err)

	require.Len(t, requests, 1)
	assert.True(t, strings.HasSuffix(requests[0], "/values/Sheet1!A1:C2"), "got %s", requests[0])

	// Untyped cells are flattened to strings
	assert.Equal(t, [][]string{{"name", "count", "active"}, {"alpha", "2", "true"}}, rows)
}

func TestService_Read_DefaultRangeUsesFirstTab(t *testing.T) {
	var requests []string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)

		if strings.Contains(r.URL.Path, "/values/") {
			writeJSON(t, w, map[string]interface{}{
				"range":  "'Q1 Data'!A1:B2",
				"values": [][]interface{}{{"a", "b"}},
			})
			return
		}

		writeJSON(t, w, map[string]interface{}{
			"sheets": []map[string]interface{}{
				{"properties": map[string]interface{}{"title": "Q1 Data"}},
				{"properties": map[string]interface{}{"title": "Q2 Data"}},
			},
		})
	}))

	rows, err := svc.Read(context.Background(), "sheet-123", "")
	require.NoError(t, err)

	// Metadata fetch first, then the first tab's values
	require.Len(t, requests, 2)
	assert.True(t, strings.HasSuffix(requests[0], "/spreadsheets/sheet-123"), "got %s", requests[0])
	assert.True(t, strings.HasSuffix(requests[1], "/values/Q1 Data"), "got %s", requests[1])
	assert.Equal(t, [][]string{{"a", "b"}}, rows)
}

func TestService_Read_EmptyValues(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{"range": "Sheet1!A1:B2"})
	}))

	rows, err := svc.Read(context.Background(), "sheet-123", "Sheet1!A1:B2")
	require.NoError(t, err)

	assert.Empty(t, rows)
}

func TestService_Read_NoSheets(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{"sheets": []interface{}{}})
	}))

	_, err := svc.Read(context.Background(), "sheet-123", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sheets")
}

func TestService_ListSheets(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"sheets": []map[string]interface{}{
				{"properties": map[string]interface{}{
					"title":          "Sheet1",
					"gridProperties": map[string]interface{}{"rowCount": 100, "columnCount": 26},
				}},
				{"properties": map[string]interface{}{
					"title":          "Budget",
					"gridProperties": map[string]interface{}{"rowCount": 42, "columnCount": 8},
				}},
			},
		})
	}))

	tabs, err := svc.ListSheets(context.Background(), "sheet-123")
	require.NoError(t, err)

	assert.Equal(t, []Tab{
		{Title: "Sheet1", RowCount: 100, ColumnCount: 26},
		{Title: "Budget", RowCount: 42, ColumnCount: 8},
	}, tabs)
}

func TestService_Append(t *testing.T) {
	var gotQuery map[string][]string
	var gotBody struct {
		Values [][]interface{} `json:"values"`
	}

	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, map[string]interface{}{
			"updates": map[string]interface{}{
				"updatedRange":   "Sheet1!A3:B3",
				"updatedRows":    1,
				"updatedColumns": 2,
				"updatedCells":   2,
			},
		})
	}))

	summary, err := svc.Append(context.Background(), "sheet-123", "Sheet1!A:B", [][]string{{"x", "y"}})
	require.NoError(t, err)

	// As-entered value interpretation, rows inserted after the table
	assert.Equal(t, []string{"USER_ENTERED"}, gotQuery["valueInputOption"])
	assert.Equal(t, []string{"INSERT_ROWS"}, gotQuery["insertDataOption"])
	assert.Equal(t, [][]interface{}{{"x", "y"}}, gotBody.Values)

	assert.Equal(t, "Sheet1!A3:B3", summary.UpdatedRange)
	assert.Equal(t, int64(2), summary.UpdatedCells)
}

func TestService_Update(t *testing.T) {
	var gotQuery map[string][]string

	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		writeJSON(t, w, map[string]interface{}{
			"updatedRange":   "Sheet1!A1:B2",
			"updatedRows":    2,
			"updatedColumns": 2,
			"updatedCells":   4,
		})
	}))

	summary, err := svc.Update(context.Background(), "sheet-123", "Sheet1!A1:B2", [][]string{{"a", "b"}, {"1", "2"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"USER_ENTERED"}, gotQuery["valueInputOption"])
	assert.Equal(t, "Sheet1!A1:B2", summary.UpdatedRange)
	assert.Equal(t, int64(4), summary.UpdatedCells)
}

// Two updates with identical arguments must produce byte-identical API
// requests. Together with the API's overwrite semantics this makes the
// operation idempotent: re-running an update leaves the sheet in the same
// final state.
func TestService_Update_RepeatedCallIsIdentical(t *testing.T) {
	type capturedRequest struct {
		method string
		uri    string
		body   string
	}
	var captured []capturedRequest

	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		captured = append(captured, capturedRequest{
			method: r.Method,
			uri:    r.URL.RequestURI(),
			body:   string(body),
		})
		writeJSON(t, w, map[string]interface{}{
			"updatedRange":   "Sheet1!A1:B2",
			"updatedRows":    2,
			"updatedColumns": 2,
			"updatedCells":   4,
		})
	}))

	values := [][]string{{"a", "b"}, {"1", "2"}}

	first, err := svc.Update(context.Background(), "sheet-123", "Sheet1!A1:B2", values)
	require.NoError(t, err)
	second, err := svc.Update(context.Background(), "sheet-123", "Sheet1!A1:B2", values)
	require.NoError(t, err)

	require.Len(t, captured, 2)
	assert.Equal(t, captured[0], captured[1])
	assert.Contains(t, captured[0].uri, "valueInputOption=USER_ENTERED")
	assert.Equal(t, first, second)
}

func TestService_Read_UpstreamError(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 404, "message": "Requested entity was not found."}}`, http.StatusNotFound)
	}))

	_, err := svc.Read(context.Background(), "missing-sheet", "Sheet1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read sheet")
}
