// ABOUTME: Text rendering of spreadsheet data for LLM consumption
// ABOUTME: Pipe-delimited tables and tab listings

package sheets

import (
	"fmt"
	"strings"
)

// NoDataText is returned instead of an empty table when a read produces no
// rows.
const NoDataText = "No data found in sheet."

// RenderTable renders rows as a pipe-delimited markdown table. The first
// row is treated as the header and a separator row is inserted directly
// beneath it. Empty input yields NoDataText.
func RenderTable(rows [][]string) string {
	if len(rows) == 0 {
		return NoDataText
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString("| ")
		b.WriteString(strings.Join(row, " | "))
		b.WriteString(" |\n")

		if i == 0 {
			b.WriteString("|")
			for range row {
				b.WriteString(" --- |")
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderTabs renders the spreadsheet's tabs as a bullet list with each
// tab's grid extent.
func RenderTabs(tabs []Tab) string {
	if len(tabs) == 0 {
		return "No sheets found in spreadsheet."
	}

	var b strings.Builder
	b.WriteString("Sheets in spreadsheet:\n")
	for _, tab := range tabs {
		fmt.Fprintf(&b, "- %s (%d rows x %d columns)\n", tab.Title, tab.RowCount, tab.ColumnCount)
	}

	return b.String()
}

// RenderUpdateSummary renders the result of a write operation.
func RenderUpdateSummary(verb string, summary *UpdateSummary) string {
	return fmt.Sprintf("%s %d cells in range %s (%d rows, %d columns)",
		verb, summary.UpdatedCells, summary.UpdatedRange, summary.UpdatedRows, summary.UpdatedColumns)
}
