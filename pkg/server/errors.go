// ABOUTME: Error classification at the tool dispatch boundary
// ABOUTME: Rewrites auth failures with remediation guidance

package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harper/workspace-mcp/pkg/auth"

	"github.com/mark3labs/mcp-go/mcp"
)

// Upstream error fragments that indicate the refresh/grant is no longer
// usable. Google's token endpoint reports "invalid_grant"; the API layer
// sometimes surfaces the longer phrase instead.
var authExpiredFragments = []string{
	"invalid_grant",
	"Token has been expired or revoked",
}

const expiredRemediation = "Google authentication has expired or been revoked. " +
	"Run regenerate_google_token.py to generate a new token file, then restart the server."

const missingRemediation = "Run regenerate_google_token.py to generate a token file, " +
	"or point GOOGLE_TOKEN_PATH at an existing one."

// errorResult converts an execution error into a flagged tool result. Auth
// failures get remediation text appended; everything else passes through
// with its raw message. Nothing escapes the dispatch boundary as a Go error.
func errorResult(err error) *mcp.CallToolResult {
	msg := err.Error()

	if errors.Is(err, auth.ErrCredentialsMissing) {
		return mcp.NewToolResultError(msg + "\n\n" + missingRemediation)
	}

	for _, fragment := range authExpiredFragments {
		if strings.Contains(msg, fragment) {
			return mcp.NewToolResultError(msg + "\n\n" + expiredRemediation)
		}
	}

	return mcp.NewToolResultError(msg)
}

// invalidParamsResult converts an argument validation error into a flagged
// tool result. Produced before any network call is attempted.
func invalidParamsResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Invalid parameters: %v", err))
}
