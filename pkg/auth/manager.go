// ABOUTME: OAuth 2.0 client lifecycle for Google Workspace APIs
// ABOUTME: Builds the authenticated HTTP client and persists refreshed tokens

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Manager owns the authenticated HTTP client for the process. It is
// constructed once in main and passed into every service, so there is no
// ambient global state and tests can substitute their own client.
//
// The manager assumes it is the only writer of the token file. Two processes
// sharing one token file can race on refresh; that deployment is not
// supported.
type Manager struct {
	tokenPath string

	mu     sync.Mutex
	client *http.Client
}

// NewManager creates a manager reading credentials from tokenPath.
func NewManager(tokenPath string) *Manager {
	return &Manager{tokenPath: tokenPath}
}

// Client returns the authenticated HTTP client, constructing it on first
// use. The client auto-refreshes expired access tokens; refreshed tokens are
// merge-written back to the token file so they survive restarts.
func (m *Manager) Client(ctx context.Context) (*http.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return m.client, nil
	}

	rec, err := LoadTokenRecord(m.tokenPath)
	if err != nil {
		return nil, err
	}

	config := rec.OAuthConfig()
	source := config.TokenSource(ctx, rec.Token())
	persistent := newPersistingTokenSource(source, m.persistRefreshed)

	m.client = oauth2.NewClient(ctx, persistent)
	return m.client, nil
}

// persistRefreshed re-reads the current on-disk record and overlays the
// refreshed token onto it, so fields the refresh does not touch (scopes,
// client identity, token endpoint) survive the rewrite.
func (m *Manager) persistRefreshed(tok *oauth2.Token) error {
	rec, err := LoadTokenRecord(m.tokenPath)
	if err != nil {
		return err
	}
	rec.ApplyRefresh(tok)
	return SaveTokenRecord(m.tokenPath, rec)
}

// persistingTokenSource wraps an oauth2.TokenSource and persists refreshed
// tokens to disk. When the underlying source silently refreshes an expired
// access token, the new token is saved so it survives server restarts.
type persistingTokenSource struct {
	source    oauth2.TokenSource
	lastToken *oauth2.Token
	saveFn    func(*oauth2.Token) error
	mu        sync.Mutex
}

func newPersistingTokenSource(source oauth2.TokenSource, saveFn func(*oauth2.Token) error) *persistingTokenSource {
	return &persistingTokenSource{
		source: source,
		saveFn: saveFn,
	}
}

// Token returns a valid token, persisting it to disk if it changed.
// Persist failures are logged, never fatal: the in-memory token stays valid
// for the rest of the process lifetime.
func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.source.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastToken == nil || token.AccessToken != p.lastToken.AccessToken {
		if err := p.saveFn(token); err != nil {
			slog.Warn("failed to persist refreshed token", "error", err)
		}
		p.lastToken = token
	}

	return token, nil
}

// TokenInfo contains metadata about the cached token
type TokenInfo struct {
	Valid       bool          `json:"valid"`
	AccessToken string        `json:"access_token"` // Masked for safe display
	Expiry      time.Time     `json:"expiry"`
	ExpiresIn   time.Duration `json:"expires_in"`
	HasRefresh  bool          `json:"has_refresh"`
	Scopes      []string      `json:"scopes,omitempty"`
}

// TokenInfo returns metadata about the on-disk token without making API calls.
func (m *Manager) TokenInfo() (*TokenInfo, error) {
	rec, err := LoadTokenRecord(m.tokenPath)
	if err != nil {
		// No token file or unreadable - return empty info
		return &TokenInfo{Valid: false}, nil
	}

	token := rec.Token()
	info := &TokenInfo{
		Valid:       token.AccessToken != "" && token.Valid(),
		AccessToken: maskToken(token.AccessToken),
		Expiry:      token.Expiry,
		HasRefresh:  token.RefreshToken != "",
		Scopes:      rec.Scopes,
	}

	if !token.Expiry.IsZero() {
		info.ExpiresIn = time.Until(token.Expiry)
	}

	return info, nil
}

// maskToken returns a masked version of the token for safe display.
// Shows first 4 and last 4 characters, e.g., "ya29...7890"
func maskToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:4] + "..." + token[len(token)-4:]
}
