package storage

import (
	"path"
	"strings"
)

// Option configures Put operations.
type Option func(*putOptions)

type putOptions struct {
	key         string
	prefix      string
	contentType string
}

// WithKey sets the object name.
func WithKey(key string) Option {
	return func(o *putOptions) {
		o.key = key
	}
}

// WithPrefix places the object under prefix.
func WithPrefix(prefix string) Option {
	return func(o *putOptions) {
		o.prefix = prefix
	}
}

// WithContentType sets the Content-Type stored with the object.
// Defaults to "application/octet-stream".
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

func (o *putOptions) objectKey() string {
	key := strings.Trim(o.key, "/")
	if key == "" {
		return ""
	}
	prefix := strings.Trim(o.prefix, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}
