package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationTemplate(t *testing.T) {
	tpl := NewTemplates()

	body, err := tpl.Confirmation(
		"https://fuel.example.com/confirm?email=a@example.com&city=sydney&token=abc",
		"Sydney prices are not yet at the bottom. We'll email you when they are.",
	)
	require.NoError(t, err)

	assert.Contains(t, body, "https://fuel.example.com/confirm?email=a@example.com&city=sydney&token=abc")
	assert.Contains(t, body, "Confirm subscription")
	assert.Contains(t, body, "not yet at the bottom")
}

func TestBuyAlertTemplate(t *testing.T) {
	tpl := NewTemplates()

	body, err := tpl.BuyAlert("sydney", "https://fuel.example.com/unsubscribe?token=xyz")
	require.NoError(t, err)

	// lower-case city renders capitalized
	assert.Contains(t, body, "Sydney prices have hit the low point")
	assert.Contains(t, body, "Fill up within 24 hours")
	assert.Contains(t, body, "https://fuel.example.com/unsubscribe?token=xyz")
}

func TestResultPageEscapesMessage(t *testing.T) {
	tpl := NewTemplates()

	body, err := tpl.ResultPage(`<script>alert("x")</script>`)
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestTemplateCaching(t *testing.T) {
	tpl := NewTemplates()

	first, err := tpl.BuyAlert("perth", "https://example.com/u")
	require.NoError(t, err)
	second, err := tpl.BuyAlert("perth", "https://example.com/u")
	require.NoError(t, err)

	if !strings.Contains(second, "Perth") || first != second {
		t.Error("cached render differs from first render")
	}
}
