package storage

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig   = errors.New("storage: invalid configuration")
	ErrRemoteDisabled  = errors.New("storage: remote path given but no bucket is configured")
	ErrEmptyKey        = errors.New("storage: empty object key")
	ErrNotFound        = errors.New("storage: file not found")
	ErrAccessDenied    = errors.New("storage: access denied")
	ErrUploadFailed    = errors.New("storage: upload failed")
	ErrDownloadFailed  = errors.New("storage: download failed")
	ErrLocalFileFailed = errors.New("storage: failed to read local file")
)

// wrapS3Error maps S3 failures onto sentinel errors. The cause is formatted
// with %v so callers match on sentinels rather than AWS types.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
