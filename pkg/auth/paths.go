// ABOUTME: XDG-compliant path resolution for the Workspace token file
// ABOUTME: Supports env var overrides, a base directory, and sensible defaults

package auth

import (
	"os"
	"path/filepath"
)

const (
	appName      = "workspace-mcp"
	defaultToken = "token.json"
	dataSubdir   = ".local/share"
)

// GetTokenPath returns the path to token.json
// Priority: GOOGLE_TOKEN_PATH > WORKSPACE_MCP_BASE_DIR > XDG_DATA_HOME > ~/.local/share
// Note: Empty env vars are treated as unset (falls through to next priority).
// GOOGLE_TOKEN_PATH matches the variable printed by the external token
// generation script, so a freshly generated token is picked up as-is.
// XDG vars must be absolute paths per the XDG spec; relative paths are ignored.
func GetTokenPath() string {
	if override := os.Getenv("GOOGLE_TOKEN_PATH"); override != "" {
		return filepath.Clean(override)
	}

	if base := os.Getenv("WORKSPACE_MCP_BASE_DIR"); base != "" {
		return filepath.Clean(filepath.Join(base, defaultToken))
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" || !filepath.IsAbs(dataHome) {
		home, err := os.UserHomeDir()
		if err != nil {
			return defaultToken // fallback to cwd
		}
		dataHome = filepath.Join(home, dataSubdir)
	}

	return filepath.Clean(filepath.Join(dataHome, appName, defaultToken))
}

// EnsureDir creates the parent directory for a file path if it doesn't exist.
// Directories are created with 0700 permissions (owner read/write/execute only).
func EnsureDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return os.MkdirAll(dir, 0700)
}
