package oauth

import "errors"

var (
	// ErrMissingClientID is returned when the OAuth client ID is not provided.
	ErrMissingClientID = errors.New("oauth: missing client ID")

	// ErrMissingClientSecret is returned when the OAuth client secret is not provided.
	ErrMissingClientSecret = errors.New("oauth: missing client secret")

	// ErrMissingRefreshToken is returned when no refresh token is configured.
	ErrMissingRefreshToken = errors.New("oauth: missing refresh token")

	// ErrRefreshFailed is returned when the token endpoint rejects the refresh.
	ErrRefreshFailed = errors.New("oauth: failed to refresh access token")
)
