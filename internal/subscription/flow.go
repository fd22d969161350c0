// Package subscription orchestrates signup, confirmation and
// unsubscription. Expected validation and authorization failures are
// returned as Result values with user-facing messages; errors are
// reserved for storage or delivery infrastructure failing.
package subscription

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/ignite/fuel-alert/internal/cycle"
	"github.com/ignite/fuel-alert/internal/mailer"
	"github.com/ignite/fuel-alert/internal/pkg/logger"
	"github.com/ignite/fuel-alert/internal/store"
	"github.com/ignite/fuel-alert/internal/token"
)

// Result is the outcome of a subscription operation.
type Result struct {
	OK      bool
	Message string
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether email matches the accepted address grammar.
func ValidEmail(email string) bool {
	return len(email) <= 254 && emailRegex.MatchString(email)
}

// Flow wires the token service, stores, sender and templates together
// for the three public subscription operations.
type Flow struct {
	tokens      *token.Service
	subscribers *store.SubscriberStore
	state       *store.StateStore
	sender      mailer.Sender
	templates   *mailer.Templates
	cities      []string
	siteURL     string
}

// NewFlow creates a subscription flow.
func NewFlow(tokens *token.Service, subscribers *store.SubscriberStore, state *store.StateStore, sender mailer.Sender, templates *mailer.Templates, cities []string, siteURL string) *Flow {
	return &Flow{
		tokens:      tokens,
		subscribers: subscribers,
		state:       state,
		sender:      sender,
		templates:   templates,
		cities:      cities,
		siteURL:     siteURL,
	}
}

// Signup validates a new subscription request and sends the double
// opt-in confirmation email. Nothing is persisted until the confirm
// link is followed.
func (f *Flow) Signup(ctx context.Context, email, city string) (Result, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	city = cycle.NormalizeCity(city)

	if !ValidEmail(email) {
		return Result{false, "Invalid email address"}, nil
	}
	if !cycle.ValidCity(city, f.cities) {
		return Result{false, f.invalidCityMessage()}, nil
	}

	reg, err := f.subscribers.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	if reg.Has(city, email) {
		return Result{false, "This email is already subscribed"}, nil
	}

	note, err := f.statusNote(ctx, city)
	if err != nil {
		return Result{}, err
	}

	confirmURL := f.actionURL("confirm.html", email, city, f.tokens.Issue(email, city, token.ActionConfirm))
	body, err := f.templates.Confirmation(confirmURL, note)
	if err != nil {
		return Result{}, err
	}

	if err := f.sender.Send(ctx, email, "Confirm your Fuel Alert subscription", body); err != nil {
		logger.Error("confirmation email failed", "email", email, "city", city, "error", err)
		return Result{false, "Failed to send confirmation email"}, nil
	}

	logger.Info("confirmation email sent", "email", email, "city", city)
	return Result{true, "Check your inbox to confirm"}, nil
}

// Confirm activates a subscription when the presented token is the
// valid confirm capability for (email, city). Token failure mutates
// nothing and yields a deliberately non-specific message.
func (f *Flow) Confirm(ctx context.Context, email, city, tok string) (Result, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	city = cycle.NormalizeCity(city)

	if !cycle.ValidCity(city, f.cities) {
		return Result{false, f.invalidCityMessage()}, nil
	}
	if !f.tokens.Verify(tok, email, city, token.ActionConfirm) {
		return Result{false, "Invalid or expired confirmation link"}, nil
	}

	status, err := f.subscribers.Add(ctx, city, email)
	if err != nil {
		return Result{}, err
	}
	if status == store.AlreadySubscribed {
		return Result{true, "You're already subscribed"}, nil
	}

	logger.Info("subscription confirmed", "email", email, "city", city)
	return Result{true, "You're subscribed! You'll only hear from us when prices hit bottom."}, nil
}

// Unsubscribe removes a subscription when the presented token is the
// valid unsubscribe capability for (email, city). Removing an address
// that was never subscribed still succeeds.
func (f *Flow) Unsubscribe(ctx context.Context, email, city, tok string) (Result, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	city = cycle.NormalizeCity(city)

	if !cycle.ValidCity(city, f.cities) {
		return Result{false, f.invalidCityMessage()}, nil
	}
	if !f.tokens.Verify(tok, email, city, token.ActionUnsubscribe) {
		return Result{false, "Invalid unsubscribe link"}, nil
	}

	status, err := f.subscribers.Remove(ctx, city, email)
	if err != nil {
		return Result{}, err
	}
	if status == store.NotSubscribed {
		return Result{true, "You weren't subscribed"}, nil
	}

	logger.Info("unsubscribed", "email", email, "city", city)
	return Result{true, "You've been unsubscribed"}, nil
}

// statusNote summarizes the city's current phase for the confirmation
// email, so a signup during a buy window still catches it.
func (f *Flow) statusNote(ctx context.Context, city string) (string, error) {
	rec, err := f.state.Load(ctx)
	if err != nil {
		return "", err
	}

	display := strings.ToUpper(city[:1]) + city[1:]
	switch rec[city] {
	case cycle.PhaseBuy:
		return fmt.Sprintf("<strong>%s prices are currently at the bottom</strong> - fill up today if you can!", display), nil
	case cycle.PhaseWait:
		return fmt.Sprintf("%s prices are not yet at the bottom. We'll email you when they are.", display), nil
	default:
		return fmt.Sprintf("We'll email you when %s prices hit the bottom of the cycle.", display), nil
	}
}

func (f *Flow) actionURL(page, email, city, tok string) string {
	params := url.Values{}
	params.Set("email", email)
	params.Set("city", city)
	params.Set("token", tok)
	return fmt.Sprintf("%s/%s?%s", strings.TrimRight(f.siteURL, "/"), page, params.Encode())
}

func (f *Flow) invalidCityMessage() string {
	return "Invalid city. Choose from: " + strings.Join(f.cities, ", ")
}
