// ABOUTME: Google Drive API service for locating spreadsheets and documents
// ABOUTME: Name-based search scoped to Workspace file types

package drive

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Workspace MIME types usable as search filters.
const (
	MimeSpreadsheet = "application/vnd.google-apps.spreadsheet"
	MimeDocument    = "application/vnd.google-apps.document"
)

const defaultPageSize = 20

// File is the subset of Drive file metadata surfaced to the caller.
type File struct {
	ID           string
	Name         string
	MimeType     string
	ModifiedTime string
	WebViewLink  string
}

// Service wraps Google Drive API operations
type Service struct {
	svc *drive.Service
}

// NewService creates a new Drive service. Extra client options are for tests
// that point the service at a fake backend.
func NewService(ctx context.Context, client *http.Client, extraOpts ...option.ClientOption) (*Service, error) {
	opts := []option.ClientOption{}
	if client != nil {
		opts = append(opts, option.WithHTTPClient(client))
	}
	opts = append(opts, extraOpts...)

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive service: %w", err)
	}

	return &Service{svc: svc}, nil
}

// Search finds untrashed files whose name contains the query. mimeType, when
// non-empty, restricts results to that file type.
func (s *Service) Search(ctx context.Context, query, mimeType string, pageSize int64) ([]File, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	terms := []string{
		fmt.Sprintf("name contains '%s'", escapeQuery(query)),
		"trashed = false",
	}
	if mimeType != "" {
		terms = append(terms, fmt.Sprintf("mimeType = '%s'", mimeType))
	}

	resp, err := s.svc.Files.List().
		Q(strings.Join(terms, " and ")).
		PageSize(pageSize).
		Fields("files(id, name, mimeType, modifiedTime, webViewLink)").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to search files: %w", err)
	}

	files := make([]File, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, File{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
			WebViewLink:  f.WebViewLink,
		})
	}

	return files, nil
}

// escapeQuery escapes characters with meaning in Drive query string literals.
func escapeQuery(q string) string {
	q = strings.ReplaceAll(q, `\`, `\\`)
	return strings.ReplaceAll(q, `'`, `\'`)
}

// RenderFiles renders search results as a bullet list.
func RenderFiles(files []File) string {
	if len(files) == 0 {
		return "No matching files found."
	}

	var b strings.Builder
	b.WriteString("Matching files:\n")
	for _, f := range files {
		kind := "file"
		switch f.MimeType {
		case MimeSpreadsheet:
			kind = "spreadsheet"
		case MimeDocument:
			kind = "document"
		}
		fmt.Fprintf(&b, "- %s (%s, id: %s)\n", f.Name, kind, f.ID)
	}

	return b.String()
}
