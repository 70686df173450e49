package oauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bulkmail/pkg/oauth"
)

func tokenServer(t *testing.T, expiresIn int, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.Form.Get("grant_type") != "refresh_token" || r.Form.Get("refresh_token") != "refresh-1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-" + string(rune('0'+calls.Load())),
			"token_type":   "Bearer",
			"expires_in":   expiresIn,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRefreshTokenSource_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  oauth.Config
		err  error
	}{
		{"missing client id", oauth.Config{ClientSecret: "s", RefreshToken: "r"}, oauth.ErrMissingClientID},
		{"missing client secret", oauth.Config{ClientID: "c", RefreshToken: "r"}, oauth.ErrMissingClientSecret},
		{"missing refresh token", oauth.Config{ClientID: "c", ClientSecret: "s"}, oauth.ErrMissingRefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts, err := oauth.NewRefreshTokenSource(tt.cfg)
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, ts)
		})
	}
}

func TestRefreshTokenSource_CachesValidToken(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := tokenServer(t, 3600, &calls)

	ts, err := oauth.NewRefreshTokenSource(oauth.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "refresh-1",
		TokenURL:     srv.URL,
	}, oauth.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	first, err := ts.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "access-1", first)

	second, err := ts.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, int32(1), calls.Load())
}

func TestRefreshTokenSource_RefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	// Tokens inside the expiry window are treated as expired.
	srv := tokenServer(t, 1, &calls)

	ts, err := oauth.NewRefreshTokenSource(oauth.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "refresh-1",
		TokenURL:     srv.URL,
	}, oauth.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = ts.AccessToken(context.Background())
	require.NoError(t, err)
	_, err = ts.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestRefreshTokenSource_RejectedRefresh(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := tokenServer(t, 3600, &calls)

	ts, err := oauth.NewRefreshTokenSource(oauth.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "revoked",
		TokenURL:     srv.URL,
	}, oauth.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = ts.AccessToken(context.Background())
	require.ErrorIs(t, err, oauth.ErrRefreshFailed)
}
