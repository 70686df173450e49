package template

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/encoding/charmap"
)

// Opener opens a named template file for reading.
type Opener interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, path string) (io.ReadCloser, error)

// Open calls f(ctx, path).
func (f OpenerFunc) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return f(ctx, path)
}

// LocalFiles opens paths on the local filesystem.
var LocalFiles Opener = OpenerFunc(func(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
})

// Load reads the template at path and decodes it from ISO-8859-1.
// A nil files opener reads from the local filesystem. Read failures are
// logged and reported as ok == false.
func Load(ctx context.Context, log *slog.Logger, files Opener, path string) (string, bool) {
	content, err := Read(ctx, files, path)
	if err != nil {
		log.ErrorContext(ctx, "failed to load template",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return "", false
	}
	return content, true
}

// Read is Load without logging.
func Read(ctx context.Context, files Opener, path string) (string, error) {
	if files == nil {
		files = LocalFiles
	}

	rc, err := files.Open(ctx, path)
	if err != nil {
		return "", errors.Join(ErrLoad, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(rc))
	if err != nil {
		return "", errors.Join(ErrLoad, err)
	}
	return string(data), nil
}
