package smtp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bulkmail/pkg/mailer"
)

func TestBuildMessage_Alternative(t *testing.T) {
	t.Parallel()

	msg, err := buildMessage(&mailer.Email{
		From:    "news@example.com",
		To:      []string{"alice@example.com"},
		Subject: "Bonjour Alice",
		HTML:    "<p>Bonjour</p>",
		Text:    "Bonjour",
		Headers: map[string]string{"X-Run-ID": "RUN1"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "X-Run-ID: RUN1")
	assert.Contains(t, raw, "<alice@example.com>")
}

func TestBuildMessage_HTMLOnly(t *testing.T) {
	t.Parallel()

	msg, err := buildMessage(&mailer.Email{
		From:    "news@example.com",
		To:      []string{"alice@example.com"},
		Subject: "Hi",
		HTML:    "<p>Hi</p>",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
	assert.NotContains(t, buf.String(), "multipart/alternative")
}

func TestBuildMessage_InvalidAddresses(t *testing.T) {
	t.Parallel()

	_, err := buildMessage(&mailer.Email{From: "bad from", To: []string{"a@example.com"}, HTML: "x"})
	require.ErrorIs(t, err, mailer.ErrInvalidAddress)

	_, err = buildMessage(&mailer.Email{From: "news@example.com", To: []string{"@@"}, HTML: "x"})
	require.ErrorIs(t, err, mailer.ErrInvalidAddress)

	_, err = buildMessage(&mailer.Email{From: "news@example.com", To: []string{"a@example.com"}, ReplyTo: "nope", HTML: "x"})
	require.ErrorIs(t, err, mailer.ErrInvalidAddress)
}
