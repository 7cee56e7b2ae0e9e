// ABOUTME: Tests for document text extraction
// ABOUTME: Validates flattening order, titles, and empty bodies

package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/docs/v1"
)

func paragraphOf(runs ...string) *docs.StructuralElement {
	elements := make([]*docs.ParagraphElement, len(runs))
	for i, run := range runs {
		elements[i] = &docs.ParagraphElement{TextRun: &docs.TextRun{Content: run}}
	}
	return &docs.StructuralElement{Paragraph: &docs.Paragraph{Elements: elements}}
}

func TestRenderDocument(t *testing.T) {
	tests := []struct {
		name     string
		doc      *docs.Document
		expected string
	}{
		{
			name: "title and flattened body",
			doc: &docs.Document{
				Title: "Meeting Notes",
				Body: &docs.Body{Content: []*docs.StructuralElement{
					paragraphOf("Hello ", "world"),
					paragraphOf("\n"),
					paragraphOf("Second paragraph\n"),
				}},
			},
			expected: "# Meeting Notes\n\nHello world\nSecond paragraph\n",
		},
		{
			name:     "missing title gets placeholder",
			doc:      &docs.Document{Body: &docs.Body{Content: []*docs.StructuralElement{paragraphOf("text\n")}}},
			expected: "# Untitled Document\n\ntext\n",
		},
		{
			name:     "empty body yields heading only",
			doc:      &docs.Document{Title: "Empty Doc"},
			expected: "# Empty Doc\n\n",
		},
		{
			name: "non-paragraph elements skipped",
			doc: &docs.Document{
				Title: "Mixed",
				Body: &docs.Body{Content: []*docs.StructuralElement{
					{SectionBreak: &docs.SectionBreak{}},
					paragraphOf("kept\n"),
					{Table: &docs.Table{}},
				}},
			},
			expected: "# Mixed\n\nkept\n",
		},
		{
			name: "paragraph elements without text runs skipped",
			doc: &docs.Document{
				Title: "Inline",
				Body: &docs.Body{Content: []*docs.StructuralElement{
					{Paragraph: &docs.Paragraph{Elements: []*docs.ParagraphElement{
						{InlineObjectElement: &docs.InlineObjectElement{}},
						{TextRun: &docs.TextRun{Content: "after image\n"}},
					}}},
				}},
			},
			expected: "# Inline\n\nafter image\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderDocument(tt.doc))
		})
	}
}
