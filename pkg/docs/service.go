// ABOUTME: Google Docs API service for document access
// ABOUTME: Handles document reads and body text insertion

package docs

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// The insertion index targets the start of the document body. Index 0 is
// the body's implicit section break and cannot receive text, so 1 is the
// lowest writable offset.
const bodyStartIndex = 1

// Service wraps Google Docs API operations
type Service struct {
	svc *docs.Service
}

// NewService creates a new Docs service. Extra client options are for tests
// that point the service at a fake backend.
func NewService(ctx context.Context, client *http.Client, extraOpts ...option.ClientOption) (*Service, error) {
	opts := []option.ClientOption{}
	if client != nil {
		opts = append(opts, option.WithHTTPClient(client))
	}
	opts = append(opts, extraOpts...)

	svc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Docs service: %w", err)
	}

	return &Service{svc: svc}, nil
}

// Read fetches the document.
func (s *Service) Read(ctx context.Context, documentID string) (*docs.Document, error) {
	doc, err := s.svc.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read document: %w", err)
	}
	return doc, nil
}

// Append inserts the given text plus a double line-break at the start of
// the document body. Despite the name this prepends rather than appends;
// see the note on bodyStartIndex.
func (s *Service) Append(ctx context.Context, documentID, text string) error {
	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{
			{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: bodyStartIndex},
					Text:     text + "\n\n",
				},
			},
		},
	}

	_, err := s.svc.Documents.BatchUpdate(documentID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to append to document: %w", err)
	}

	return nil
}
