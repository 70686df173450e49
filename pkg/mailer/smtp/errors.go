package smtp

import "errors"

var (
	ErrMissingHost  = errors.New("smtp: host is required")
	ErrUnknownAuth  = errors.New("smtp: unknown auth mechanism")
	ErrUnknownTLS   = errors.New("smtp: unknown TLS policy")
	ErrNoTokens     = errors.New("smtp: xoauth2 requires a token source")
	ErrTokenRefresh = errors.New("smtp: failed to obtain access token")
)
