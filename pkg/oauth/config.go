package oauth

// GoogleMailScope grants full SMTP access to a Gmail mailbox.
const GoogleMailScope = "https://mail.google.com/"

// Config holds the OAuth2 client used to refresh SMTP access tokens.
type Config struct {
	ClientID     string   `env:"OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"OAUTH_CLIENT_SECRET"`
	RefreshToken string   `env:"OAUTH_REFRESH_TOKEN"`
	TokenURL     string   `env:"OAUTH_TOKEN_URL"`
	Scopes       []string `env:"OAUTH_SCOPES" envSeparator:","`
}
