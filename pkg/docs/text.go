// ABOUTME: Plain-text extraction from the Docs API content tree
// ABOUTME: Flattens paragraph elements and text runs in document order

package docs

import (
	"strings"

	"google.golang.org/api/docs/v1"
)

// untitledPlaceholder is used when a document has no title.
const untitledPlaceholder = "Untitled Document"

// RenderDocument renders the document as a title heading followed by the
// flattened body text.
func RenderDocument(doc *docs.Document) string {
	title := doc.Title
	if title == "" {
		title = untitledPlaceholder
	}

	return "# " + title + "\n\n" + FlattenBody(doc)
}

// FlattenBody extracts the document's plain text: every paragraph's text
// runs concatenated in document order. Non-paragraph structural elements
// (tables, section breaks) are skipped.
func FlattenBody(doc *docs.Document) string {
	if doc.Body == nil {
		return ""
	}

	var b strings.Builder
	for _, element := range doc.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, pe := range element.Paragraph.Elements {
			if pe.TextRun == nil {
				continue
			}
			b.WriteString(pe.TextRun.Content)
		}
	}

	return b.String()
}
