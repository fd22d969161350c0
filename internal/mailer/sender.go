// Package mailer delivers Fuel Alert email through a pluggable sender:
// the Resend HTTP API, AWS SES, or a dry-run logger for local use.
package mailer

import (
	"context"
	"fmt"

	"github.com/ignite/fuel-alert/internal/config"
	"github.com/ignite/fuel-alert/internal/pkg/logger"
)

// Sender delivers a single email. Implementations are fire-and-forget
// per call: an error means this message was not accepted, nothing more.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NewSender constructs the sender selected by cfg.Provider.
func NewSender(cfg config.MailerConfig, fromName, fromEmail string) (Sender, error) {
	switch cfg.Provider {
	case "resend":
		return NewResendSender(cfg, fromName, fromEmail), nil
	case "ses":
		return NewSESSender(cfg, fromName, fromEmail)
	case "dryrun":
		return &DryRunSender{}, nil
	default:
		return nil, fmt.Errorf("unknown mailer provider %q", cfg.Provider)
	}
}

// DryRunSender logs instead of sending, for local runs without an API
// key. Every send succeeds.
type DryRunSender struct{}

// Send logs the would-be delivery.
func (s *DryRunSender) Send(_ context.Context, to, subject, _ string) error {
	logger.Info("dry run: would send email", "to", to, "subject", subject)
	return nil
}
