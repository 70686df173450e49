package oauth

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"
)

// RefreshTokenSource exchanges a refresh token for access tokens.
// It is safe for concurrent use.
type RefreshTokenSource struct {
	config     *oauth2.Config
	httpClient *http.Client

	mu      sync.Mutex
	current *oauth2.Token
}

// NewRefreshTokenSource validates cfg and returns a token source.
func NewRefreshTokenSource(cfg Config, opts ...Option) (*RefreshTokenSource, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return nil, ErrMissingClientSecret
	}
	if cfg.RefreshToken == "" {
		return nil, ErrMissingRefreshToken
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	endpoint := googleOAuth.Endpoint
	if cfg.TokenURL != "" {
		endpoint = oauth2.Endpoint{TokenURL: cfg.TokenURL}
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{GoogleMailScope}
	}

	return &RefreshTokenSource{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		httpClient: o.httpClient,
		current:    &oauth2.Token{RefreshToken: cfg.RefreshToken},
	}, nil
}

// AccessToken returns a valid access token, refreshing it when needed.
func (s *RefreshTokenSource) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Valid() {
		return s.current.AccessToken, nil
	}

	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}

	tok, err := s.config.TokenSource(ctx, s.current).Token()
	if err != nil {
		return "", errors.Join(ErrRefreshFailed, err)
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = s.current.RefreshToken
	}
	s.current = tok

	return tok.AccessToken, nil
}
