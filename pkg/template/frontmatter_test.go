package template

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDocument_WithFrontmatter(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("---\nSubject: Welcome $first_name\nAuthor: System\n---\n# Hello $first_name\n\nBody.\n")
	require.NoError(t, err)
	require.Equal(t, "Welcome $first_name", doc.Subject())
	require.Equal(t, "System", doc.Metadata["Author"])
	require.Equal(t, "# Hello $first_name\n\nBody.\n", doc.Body)
}

func TestParseDocument_WithoutFrontmatter(t *testing.T) {
	t.Parallel()

	content := "<p>Hello $name</p>\n---\nnot frontmatter\n---\n"
	doc, err := ParseDocument(content)
	require.NoError(t, err)
	require.Empty(t, doc.Metadata)
	require.Empty(t, doc.Subject())
	require.Equal(t, content, doc.Body)
}

func TestParseDocument_EmptyFrontmatter(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("---\n\n---\nBody content.")
	require.NoError(t, err)
	require.Empty(t, doc.Metadata)
	require.Equal(t, "Body content.", doc.Body)
}

func TestParseDocument_LowercaseSubject(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("---\nsubject: News\n---\nBody")
	require.NoError(t, err)
	require.Equal(t, "News", doc.Subject())
}

func TestParseDocument_WindowsLineEndings(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("---\r\nSubject: Test\r\n---\r\nBody")
	require.NoError(t, err)
	require.Equal(t, "Test", doc.Subject())
	require.Equal(t, "Body", doc.Body)
}

func TestParseDocument_BodyWithDelimiters(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("---\nSubject: Code\n---\nBefore\n\n---\nkey: value\n---\n")
	require.NoError(t, err)
	require.Equal(t, "Code", doc.Subject())
	require.Equal(t, "Before\n\n---\nkey: value\n---\n", doc.Body)
}

func TestParseDocument_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"only opening delimiter":    "---",
		"missing closing delimiter": "---\nSubject: Test\nBody without closing delimiter",
		"invalid yaml":              "---\nSubject: Test\nInvalid: [unclosed\n---\nBody",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := ParseDocument(content)
			require.ErrorIs(t, err, ErrInvalidFrontmatter)
			require.Nil(t, doc)
		})
	}
}

func TestParseDocument_Empty(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("")
	require.NoError(t, err)
	require.Empty(t, doc.Metadata)
	require.Empty(t, doc.Body)
}
