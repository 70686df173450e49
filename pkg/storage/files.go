package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
)

// RemoteScheme marks a path as an object key in the configured bucket.
const RemoteScheme = "s3://"

// IsRemote reports whether path refers to object storage.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, RemoteScheme)
}

// RemoteKey strips the scheme from a remote path.
func RemoteKey(path string) string {
	return strings.TrimLeft(strings.TrimPrefix(path, RemoteScheme), "/")
}

// Files opens local paths from disk and s3:// paths from the bucket.
type Files struct {
	remote *S3
}

// NewFiles returns a Files resolver. A nil store rejects remote paths.
func NewFiles(remote *S3) *Files {
	return &Files{remote: remote}
}

// Open returns a reader for path. The caller closes it.
func (f *Files) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if !IsRemote(path) {
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.Join(ErrLocalFileFailed, err)
		}
		return file, nil
	}

	if f == nil || f.remote == nil {
		return nil, ErrRemoteDisabled
	}
	key := RemoteKey(path)
	if key == "" {
		return nil, ErrEmptyKey
	}
	return f.remote.Get(ctx, key)
}

// Stat checks that path exists without reading it.
func (f *Files) Stat(ctx context.Context, path string) (*FileInfo, error) {
	if !IsRemote(path) {
		st, err := os.Stat(path)
		if err != nil {
			return nil, errors.Join(ErrLocalFileFailed, err)
		}
		return &FileInfo{Key: path, Size: st.Size()}, nil
	}

	if f == nil || f.remote == nil {
		return nil, ErrRemoteDisabled
	}
	return f.remote.HeadObject(ctx, RemoteKey(path))
}

// PutFile uploads the local file at path.
func PutFile(ctx context.Context, s *S3, path string, opts ...Option) (*FileInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrLocalFileFailed, err)
	}
	defer func() { _ = file.Close() }()

	st, err := file.Stat()
	if err != nil {
		return nil, errors.Join(ErrLocalFileFailed, err)
	}

	opts = append([]Option{WithContentType("text/plain; charset=utf-8")}, opts...)
	return s.Put(ctx, file, st.Size(), opts...)
}
