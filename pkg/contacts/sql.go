package contacts

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/bulkmail/pkg/db"
	"github.com/dmitrymomot/bulkmail/pkg/storage"
)

type localFiles struct{}

func (localFiles) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func readSQLite(ctx context.Context, files Opener, path, query string) ([]Contact, error) {
	if storage.IsRemote(path) {
		local, cleanup, err := download(ctx, files, path)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		path = local
	}

	conn, err := db.OpenSQLite(ctx, path)
	if err != nil {
		return nil, errors.Join(ErrOpenSource, err)
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	defer func() { _ = rows.Close() }()

	return scanSQLRows(rows)
}

func scanSQLRows(rows *sql.Rows) ([]Contact, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}

	list := []Contact{}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Join(ErrQuery, err)
		}
		c := make(Contact, len(cols))
		for i, name := range cols {
			c[name] = formatValue(values[i])
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQuery, err)
	}

	return list, nil
}

func readPostgres(ctx context.Context, url, query string) ([]Contact, error) {
	pool, err := db.Connect(ctx, db.Config{
		ConnectionString: url,
		RetryAttempts:    3,
		RetryInterval:    2 * time.Second,
	})
	if err != nil {
		return nil, errors.Join(ErrOpenSource, err)
	}
	defer pool.Close()

	list := []Contact{}
	err = db.ReadOnly(ctx, pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				return err
			}
			c := make(Contact, len(fields))
			for i, fd := range fields {
				c[fd.Name] = formatValue(values[i])
			}
			list = append(list, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}

	return list, nil
}

// formatValue renders a column value as contact text. NULL becomes "".
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	case driver.Valuer:
		inner, err := x.Value()
		if err != nil {
			return ""
		}
		return formatValue(inner)
	}
	return fmt.Sprint(v)
}

// formatFloat keeps a ".0" suffix on whole numbers and switches to an
// exponent for very large or small magnitudes, so 2.0 reads "2.0" and 1e20
// reads "1e+20".
func formatFloat(x float64, bitSize int) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}

	if abs := math.Abs(x); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(x, 'e', -1, bitSize)
	}
	s := strconv.FormatFloat(x, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// download copies a remote SQLite file to a temporary path.
func download(ctx context.Context, files Opener, path string) (string, func(), error) {
	rc, err := files.Open(ctx, path)
	if err != nil {
		return "", nil, errors.Join(ErrOpenSource, err)
	}
	defer func() { _ = rc.Close() }()

	tmp, err := os.CreateTemp("", "bulkmail-*.db")
	if err != nil {
		return "", nil, errors.Join(ErrOpenSource, err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, rc); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", nil, errors.Join(ErrOpenSource, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, errors.Join(ErrOpenSource, err)
	}

	return tmp.Name(), cleanup, nil
}
