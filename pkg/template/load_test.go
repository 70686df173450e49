package template_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bulkmail/pkg/logger"
	"github.com/dmitrymomot/bulkmail/pkg/template"
)

func TestLoad_LocalFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "welcome.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>Hello $name</p>"), 0o600))

	got, ok := template.Load(context.Background(), logger.NewNope(), nil, path)
	require.True(t, ok)
	assert.Equal(t, "<p>Hello $name</p>", got)
}

func TestLoad_DecodesLatin1(t *testing.T) {
	t.Parallel()

	// "Café ñ" in ISO-8859-1.
	raw := []byte{'C', 'a', 'f', 0xE9, ' ', 0xF1}
	path := filepath.Join(t.TempDir(), "latin1.txt")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	got, ok := template.Load(context.Background(), logger.NewNope(), nil, path)
	require.True(t, ok)
	assert.Equal(t, "Café ñ", got)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	got, ok := template.Load(context.Background(), logger.NewNope(), nil, filepath.Join(t.TempDir(), "nope.html"))
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestLoad_CustomOpener(t *testing.T) {
	t.Parallel()

	var requested string
	files := template.OpenerFunc(func(_ context.Context, path string) (io.ReadCloser, error) {
		requested = path
		return io.NopCloser(strings.NewReader("remote $name")), nil
	})

	got, ok := template.Load(context.Background(), logger.NewNope(), files, "s3://templates/a.html")
	require.True(t, ok)
	assert.Equal(t, "remote $name", got)
	assert.Equal(t, "s3://templates/a.html", requested)
}

func TestRead_WrapsOpenError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	files := template.OpenerFunc(func(context.Context, string) (io.ReadCloser, error) {
		return nil, boom
	})

	_, err := template.Read(context.Background(), files, "x")
	require.ErrorIs(t, err, template.ErrLoad)
	require.ErrorIs(t, err, boom)
}
