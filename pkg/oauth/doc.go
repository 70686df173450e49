// Package oauth supplies OAuth2 access tokens for SMTP XOAUTH2 authentication.
//
// Providers such as Gmail and Microsoft 365 accept a short-lived access token
// in place of a password. RefreshTokenSource exchanges a long-lived refresh
// token for access tokens and caches each one until shortly before it expires:
//
//	tokens, err := oauth.NewRefreshTokenSource(oauth.Config{
//		ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
//		ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
//		RefreshToken: os.Getenv("OAUTH_REFRESH_TOKEN"),
//	})
//	if err != nil {
//		return err
//	}
//	transport, err := smtp.New(cfg, smtp.WithTokenSource(tokens))
//
// The Google token endpoint is used unless Config.TokenURL is set.
package oauth
