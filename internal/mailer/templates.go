package mailer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"
)

const confirmationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 480px; margin: 0 auto; padding: 24px; color: #1a1a1a;">
    <p style="font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">
        Click to confirm your subscription:
    </p>

    <p style="margin: 0 0 32px 0;">
        <a href="{{ confirm_url }}"
           style="display: inline-block; background: #16a34a; color: white; padding: 12px 24px;
                  text-decoration: none; border-radius: 6px; font-weight: 500;">
            Confirm subscription
        </a>
    </p>

    <p style="font-size: 14px; color: #666; line-height: 1.6; margin: 0 0 24px 0;">
        {{ status_note }}
    </p>

    <p style="font-size: 14px; color: #666; line-height: 1.6; margin: 0 0 24px 0;">
        You'll only hear from us when prices hit bottom. That's it.
    </p>

    <hr style="border: none; border-top: 1px solid #e5e5e5; margin: 32px 0;">

    <p style="font-size: 13px; color: #999; margin: 0; font-style: italic;">
        Inspired by "How They Get You" by Chris Kohler
    </p>
</body>
</html>`

const buyAlertTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 480px; margin: 0 auto; padding: 24px; color: #1a1a1a;">
    <p style="font-size: 18px; line-height: 1.6; margin: 0 0 24px 0;">
        {{ city | citycase }} prices have hit the low point of the cycle.
    </p>

    <p style="font-size: 24px; font-weight: 600; margin: 0 0 24px 0; color: #16a34a;">
        Fill up within 24 hours.
    </p>

    <hr style="border: none; border-top: 1px solid #e5e5e5; margin: 32px 0;">

    <p style="font-size: 13px; color: #666; margin: 0 0 8px 0;">
        <a href="{{ unsubscribe_url }}" style="color: #666;">Unsubscribe</a>
    </p>

    <p style="font-size: 13px; color: #999; margin: 0; font-style: italic;">
        Inspired by "How They Get You" by Chris Kohler
    </p>
</body>
</html>`

const resultPageTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Fuel Alert</title>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 480px; margin: 80px auto; padding: 24px; text-align: center;">
    <p style="font-size: 18px; margin-bottom: 24px;">{{ message | escape }}</p>
    <p><a href="/" style="color: #16a34a;">&larr; Back to Fuel Alert</a></p>
</body>
</html>`

// Templates renders the system's email bodies and HTML response pages
// using Liquid, with compiled templates cached after first use.
type Templates struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewTemplates creates the template renderer and registers filters.
func NewTemplates() *Templates {
	engine := liquid.NewEngine()

	// City names are stored lower-case; display them capitalized:
	// {{ city | citycase }}
	engine.RegisterFilter("citycase", func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	})

	return &Templates{engine: engine}
}

func (t *Templates) render(name, src string, bindings map[string]interface{}) (string, error) {
	var tpl *liquid.Template
	if cached, ok := t.cache.Load(name); ok {
		tpl = cached.(*liquid.Template)
	} else {
		parsed, err := t.engine.ParseString(src)
		if err != nil {
			return "", fmt.Errorf("parsing template %s: %w", name, err)
		}
		t.cache.Store(name, parsed)
		tpl = parsed
	}

	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return out, nil
}

// Confirmation renders the double opt-in email body.
func (t *Templates) Confirmation(confirmURL, statusNote string) (string, error) {
	return t.render("confirmation", confirmationTemplate, map[string]interface{}{
		"confirm_url": confirmURL,
		"status_note": statusNote,
	})
}

// BuyAlert renders the buy-window notification body.
func (t *Templates) BuyAlert(city, unsubscribeURL string) (string, error) {
	return t.render("buy_alert", buyAlertTemplate, map[string]interface{}{
		"city":            city,
		"unsubscribe_url": unsubscribeURL,
	})
}

// ResultPage renders the HTML page shown after a subscription action.
func (t *Templates) ResultPage(message string) (string, error) {
	return t.render("result_page", resultPageTemplate, map[string]interface{}{
		"message": message,
	})
}
