package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/fuel-alert/internal/config"
)

// ResendSender delivers email through the Resend HTTP API.
type ResendSender struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewResendSender creates a Resend API sender.
func NewResendSender(cfg config.MailerConfig, fromName, fromEmail string) *ResendSender {
	return &ResendSender{
		baseURL: cfg.ResendBaseURL,
		apiKey:  cfg.ResendAPIKey,
		from:    fmt.Sprintf("%s <%s>", fromName, fromEmail),
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts a single message to the Resend emails endpoint.
func (s *ResendSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
