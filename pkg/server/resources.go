// ABOUTME: MCP resources exposing server state
// ABOUTME: Token metadata resource for checking auth health without a tool call

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerResources registers all MCP resources
func (s *Server) registerResources() {
	// Token metadata (masked)
	s.mcp.AddResource(
		mcp.NewResource(
			"workspace://auth/token",
			"OAuth Token Status",
			mcp.WithResourceDescription("Metadata about the cached OAuth token (masked, no API calls)"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleTokenResource,
	)
}

// Resource handlers

func (s *Server) handleTokenResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if s.auth == nil {
		return nil, fmt.Errorf("auth manager not initialized")
	}

	info, err := s.auth.TokenInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get token info: %w", err)
	}

	payload := map[string]interface{}{
		"valid":        info.Valid,
		"access_token": info.AccessToken,
		"has_refresh":  info.HasRefresh,
		"scopes":       info.Scopes,
	}
	if !info.Expiry.IsZero() {
		payload["expiry"] = info.Expiry.Format(time.RFC3339)
		payload["expires_in"] = info.ExpiresIn.Round(time.Second).String()
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
