// ABOUTME: Tests for credential record persistence
// ABOUTME: Validates load/save round trips and refresh merging

package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func writeTokenFile(t *testing.T, rec *TokenRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, SaveTokenRecord(path, rec))
	return path
}

func sampleRecord() *TokenRecord {
	return &TokenRecord{
		AccessToken:  "ya29.original-access-token",
		RefreshToken: "1//original-refresh-token",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientID:     "client-id.apps.googleusercontent.com",
		ClientSecret: "client-secret",
		Scopes: []string{
			"https://www.googleapis.com/auth/spreadsheets.readonly",
			"https://www.googleapis.com/auth/documents.readonly",
		},
		Expiry: "2026-01-01T00:00:00Z",
	}
}

func TestLoadTokenRecord_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	_, err := LoadTokenRecord(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredentialsMissing)
	assert.Contains(t, err.Error(), path)
}

func TestLoadTokenRecord_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadTokenRecord(path)

	require.Error(t, err)
	// A malformed file is a different failure than a missing one
	assert.NotErrorIs(t, err, ErrCredentialsMissing)
}

func TestTokenRecord_RoundTrip(t *testing.T) {
	rec := sampleRecord()
	path := writeTokenFile(t, rec)

	loaded, err := LoadTokenRecord(path)
	require.NoError(t, err)

	assert.Equal(t, rec, loaded)
}

func TestTokenRecord_FilePermissions(t *testing.T) {
	path := writeTokenFile(t, sampleRecord())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestTokenRecord_ExpiryLayouts(t *testing.T) {
	tests := []struct {
		name   string
		expiry string
		want   time.Time
	}{
		{
			name:   "RFC3339",
			expiry: "2026-03-15T10:30:00Z",
			want:   time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:   "naive UTC with microseconds",
			expiry: "2026-03-15T10:30:00.123456",
			want:   time.Date(2026, 3, 15, 10, 30, 0, 123456000, time.UTC),
		},
		{
			name:   "absent",
			expiry: "",
			want:   time.Time{},
		},
		{
			name:   "unparseable",
			expiry: "soon",
			want:   time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &TokenRecord{Expiry: tt.expiry}
			assert.True(t, tt.want.Equal(rec.ExpiryTime()), "got %v", rec.ExpiryTime())
		})
	}
}

func TestApplyRefresh_PreservesUntouchedFields(t *testing.T) {
	rec := sampleRecord()
	expiry := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	rec.ApplyRefresh(&oauth2.Token{
		AccessToken: "ya29.new-access-token",
		Expiry:      expiry,
	})

	assert.Equal(t, "ya29.new-access-token", rec.AccessToken)
	assert.Equal(t, "2026-06-01T12:00:00Z", rec.Expiry)
	// Fields the refresh did not touch survive the merge
	assert.Equal(t, "1//original-refresh-token", rec.RefreshToken)
	assert.Equal(t, sampleRecord().Scopes, rec.Scopes)
	assert.Equal(t, sampleRecord().ClientID, rec.ClientID)
	assert.Equal(t, sampleRecord().ClientSecret, rec.ClientSecret)
	assert.Equal(t, sampleRecord().TokenURI, rec.TokenURI)
}

func TestApplyRefresh_RotatedRefreshToken(t *testing.T) {
	rec := sampleRecord()

	rec.ApplyRefresh(&oauth2.Token{
		AccessToken:  "ya29.new-access-token",
		RefreshToken: "1//rotated-refresh-token",
	})

	assert.Equal(t, "1//rotated-refresh-token", rec.RefreshToken)
	assert.Empty(t, rec.Expiry)
}

func TestTokenRecord_OAuthConfig(t *testing.T) {
	rec := sampleRecord()

	config := rec.OAuthConfig()

	assert.Equal(t, rec.ClientID, config.ClientID)
	assert.Equal(t, rec.ClientSecret, config.ClientSecret)
	assert.Equal(t, rec.TokenURI, config.Endpoint.TokenURL)
	assert.Equal(t, rec.Scopes, config.Scopes)
}
