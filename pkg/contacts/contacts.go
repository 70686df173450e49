package contacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// EmailField is the field that holds a contact's address.
const EmailField = "email"

// DefaultQuery selects active contacts from relational sources.
const DefaultQuery = "SELECT * FROM contacts WHERE active = 1"

// Contact maps field names to values.
type Contact map[string]string

// Email returns the trimmed address, or "" when absent.
func (c Contact) Email() string {
	return strings.TrimSpace(c[EmailField])
}

// Kind identifies a contact source format.
type Kind string

const (
	KindCSV      Kind = "csv"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// ParseKind validates a source name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCSV, KindSQLite, KindPostgres:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Source describes where contacts come from.
type Source struct {
	Kind Kind
	// Path is a file path, an s3:// key, or a PostgreSQL URL.
	Path string
	// Query is used by relational sources. Empty means DefaultQuery.
	Query string
}

func (s Source) query() string {
	if strings.TrimSpace(s.Query) == "" {
		return DefaultQuery
	}
	return s.Query
}

// Opener opens a contact file for reading.
type Opener interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Load reads all contacts from src. Errors are logged and yield an empty list.
func Load(ctx context.Context, log *slog.Logger, files Opener, src Source) []Contact {
	list, err := Read(ctx, files, src)
	if err != nil {
		log.ErrorContext(ctx, "failed to load contacts",
			slog.String("source", string(src.Kind)),
			slog.String("path", redactURL(src.Path)),
			slog.String("error", err.Error()),
		)
		return []Contact{}
	}

	log.InfoContext(ctx, "contacts loaded",
		slog.String("source", string(src.Kind)),
		slog.Int("count", len(list)),
	)
	return list
}

// Read is Load without logging.
func Read(ctx context.Context, files Opener, src Source) ([]Contact, error) {
	if files == nil {
		files = localFiles{}
	}

	switch src.Kind {
	case KindCSV:
		rc, err := files.Open(ctx, src.Path)
		if err != nil {
			return nil, errors.Join(ErrOpenSource, err)
		}
		defer func() { _ = rc.Close() }()
		return ReadCSV(rc)

	case KindSQLite:
		return readSQLite(ctx, files, src.Path, src.query())

	case KindPostgres:
		return readPostgres(ctx, src.Path, src.query())
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, src.Kind)
}
