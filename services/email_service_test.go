package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertHTMLToText(t *testing.T) {
	html := `<div><p>Hello Acme,</p><p>Your quote <b>QT-AB12345</b> is <b>quoted</b>.</p></div>`
	text := convertHTMLToText(html)

	assert.Contains(t, text, "Hello Acme,")
	assert.Contains(t, text, "QT-AB12345")
	assert.NotContains(t, text, "<b>")
	assert.NotContains(t, text, "<p>")
}

func TestConvertHTMLToText_ListsAndTables(t *testing.T) {
	html := `<ul><li>first</li><li>second</li></ul><table><tr><td>a</td><td>b</td></tr></table>`
	text := convertHTMLToText(html)

	assert.Contains(t, text, "- first")
	assert.Contains(t, text, "- second")
	assert.Contains(t, text, "a | b")
}

func TestNewEmailService_RequiresHost(t *testing.T) {
	t.Setenv("SMTP_HOST", "")

	_, err := NewEmailService()
	assert.Error(t, err)
}

func TestNewEmailService_Defaults(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_USER", "mailer@example.com")

	es, err := NewEmailService()
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", es.host)
	assert.Equal(t, "587", es.port)
}
