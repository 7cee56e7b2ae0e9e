// ABOUTME: Credential record persistence for the Workspace token file
// ABOUTME: Loads, merges, and atomically rewrites the on-disk token.json

package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// ErrCredentialsMissing indicates the token file does not exist at all, as
// opposed to existing but being unreadable or malformed. Callers give
// different remediation for the two cases.
var ErrCredentialsMissing = errors.New("token file not found")

// expiryLayouts are the timestamp formats accepted in the token file's
// expiry field. The external authorization flow writes naive UTC timestamps
// without a zone suffix; RFC3339 is accepted for tokens we rewrite ourselves.
var expiryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
}

// TokenRecord mirrors the token.json written by the external authorization
// flow (regenerate_google_token.py). JSON field names follow that file.
type TokenRecord struct {
	AccessToken  string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Expiry       string   `json:"expiry,omitempty"`
}

// LoadTokenRecord reads and parses the token file at path.
// A missing file yields ErrCredentialsMissing; a present but malformed file
// yields a parse error.
func LoadTokenRecord(path string) (*TokenRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrCredentialsMissing, path)
		}
		return nil, fmt.Errorf("unable to read token file: %w", err)
	}

	rec := &TokenRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("unable to parse token file %s: %w", path, err)
	}

	return rec, nil
}

// SaveTokenRecord writes the record to disk using atomic write (write to
// temp, then rename). This prevents partial writes from corrupting the file.
func SaveTokenRecord(path string, rec *TokenRecord) error {
	if err := EnsureDir(path); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".token-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	// Restrictive permissions before any token data hits the file
	if err := tmpFile.Chmod(0600); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}

	if err := json.NewEncoder(tmpFile).Encode(rec); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// ExpiryTime parses the record's expiry field. Returns the zero time when
// the field is absent or unparseable.
func (r *TokenRecord) ExpiryTime() time.Time {
	if r.Expiry == "" {
		return time.Time{}
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, r.Expiry); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Token converts the record into an oauth2 token.
func (r *TokenRecord) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		Expiry:       r.ExpiryTime(),
	}
}

// OAuthConfig builds the oauth2 client configuration embedded in the record.
func (r *TokenRecord) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: r.TokenURI,
		},
		Scopes: r.Scopes,
	}
}

// ApplyRefresh overlays a refreshed oauth2 token onto the record: access
// token and expiry always, refresh token only when the provider rotated it.
// Every other field (scopes, client identity, token endpoint) is preserved.
func (r *TokenRecord) ApplyRefresh(tok *oauth2.Token) {
	r.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		r.RefreshToken = tok.RefreshToken
	}
	if tok.Expiry.IsZero() {
		r.Expiry = ""
	} else {
		r.Expiry = tok.Expiry.UTC().Format(time.RFC3339)
	}
}
