package contacts

import "net/url"

// redactURL hides the password in database URLs before they are logged.
func redactURL(path string) string {
	u, err := url.Parse(path)
	if err != nil || u.User == nil {
		return path
	}
	return u.Redacted()
}
